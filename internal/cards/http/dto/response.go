package dto

import (
	"fmt"
	"time"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
)

// CardCreatedResponse acknowledges a stored card without echoing any of
// its contents.
type CardCreatedResponse struct {
	CardID string `json:"card_id"`
}

// WrappedCardResponse carries a card read re-encrypted under a freshly
// issued single-use key. The client claims the key to decrypt the data.
type WrappedCardResponse struct {
	EncryptedKeyID string `json:"encrypted_key_id"`
	EncryptedData  string `json:"encrypted_data"`
}

// MapWrappedCardToResponse converts a wrapped card to an API response.
func MapWrappedCardToResponse(wrapped *cardsDomain.WrappedCard) WrappedCardResponse {
	return WrappedCardResponse{
		EncryptedKeyID: wrapped.EncryptedKeyID.String(),
		EncryptedData:  wrapped.EncryptedData,
	}
}

// CardSummaryResponse is the masked listing form of a card. It never
// contains plaintext or ciphertext card data.
type CardSummaryResponse struct {
	ID               string    `json:"id"`
	AccountID        *string   `json:"account_id"`
	CardType         string    `json:"card_type"`
	MaskedCardNumber string    `json:"masked_card_number"`
	Expires          string    `json:"expires"`
	Status           string    `json:"status"`
	Nickname         *string   `json:"nickname"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MapCardToSummaryResponse converts a card record to its masked listing form.
func MapCardToSummaryResponse(card *cardsDomain.CreditCardRecord) CardSummaryResponse {
	return CardSummaryResponse{
		ID:               card.ID.String(),
		AccountID:        card.AccountID,
		CardType:         card.CardType,
		MaskedCardNumber: card.MaskedCardNumber,
		Expires:          fmt.Sprintf("%02d/%02d", card.ExpirationMonth, card.ExpirationYear%100),
		Status:           string(card.Status),
		Nickname:         card.Nickname,
		CreatedAt:        card.CreatedAt,
		UpdatedAt:        card.UpdatedAt,
	}
}

// CardListResponse represents a paginated list of masked cards.
type CardListResponse struct {
	Data   []CardSummaryResponse `json:"data"`
	Offset int                   `json:"offset"`
	Limit  int                   `json:"limit"`
}

// MapCardsToListResponse converts card records to a paginated list response.
func MapCardsToListResponse(cards []*cardsDomain.CreditCardRecord, offset, limit int) CardListResponse {
	summaries := make([]CardSummaryResponse, 0, len(cards))
	for _, card := range cards {
		summaries = append(summaries, MapCardToSummaryResponse(card))
	}
	return CardListResponse{
		Data:   summaries,
		Offset: offset,
		Limit:  limit,
	}
}

// BulkUpdateResponse reports how many cards a bulk status change touched.
type BulkUpdateResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}

// CheckCardNumberResponse reports whether a card number is already stored.
// It deliberately carries nothing else; the matching record stays hidden.
type CheckCardNumberResponse struct {
	Exists bool `json:"exists"`
}

// IssuerResponse represents a card issuer in API responses.
type IssuerResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// MapIssuerToResponse converts an issuer to an API response.
func MapIssuerToResponse(issuer *cardsDomain.Issuer) IssuerResponse {
	return IssuerResponse{
		ID:        issuer.ID.String(),
		Label:     issuer.Label,
		CreatedAt: issuer.CreatedAt,
	}
}

// IssuerListResponse represents the full list of registered issuers.
type IssuerListResponse struct {
	Data []IssuerResponse `json:"data"`
}

// MapIssuersToListResponse converts issuers to a list response.
func MapIssuersToListResponse(issuers []*cardsDomain.Issuer) IssuerListResponse {
	responses := make([]IssuerResponse, 0, len(issuers))
	for _, issuer := range issuers {
		responses = append(responses, MapIssuerToResponse(issuer))
	}
	return IssuerListResponse{Data: responses}
}

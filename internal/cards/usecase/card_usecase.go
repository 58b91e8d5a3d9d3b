package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	cardsService "github.com/ticketops/cardvault/internal/cards/service"
	cryptoService "github.com/ticketops/cardvault/internal/crypto/service"
	"github.com/ticketops/cardvault/internal/database"
	apperrors "github.com/ticketops/cardvault/internal/errors"
	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
	transportDomain "github.com/ticketops/cardvault/internal/transport/domain"
	transportUseCase "github.com/ticketops/cardvault/internal/transport/usecase"
)

// cardUseCase implements the CardUseCase interface.
type cardUseCase struct {
	cardRepo   CardRepository
	issuerRepo IssuerRepository
	detector   DuplicateDetector
	vault      cryptoService.Vault
	envelope   transportUseCase.EnvelopeUseCase
	txManager  database.TxManager
}

// NewCardUseCase creates a new CardUseCase.
func NewCardUseCase(
	cardRepo CardRepository,
	issuerRepo IssuerRepository,
	detector DuplicateDetector,
	vault cryptoService.Vault,
	envelope transportUseCase.EnvelopeUseCase,
	txManager database.TxManager,
) CardUseCase {
	return &cardUseCase{
		cardRepo:   cardRepo,
		issuerRepo: issuerRepo,
		detector:   detector,
		vault:      vault,
		envelope:   envelope,
		txManager:  txManager,
	}
}

// mapKeyError flattens every transport key lifecycle failure into the uniform
// "encryption key invalid or expired" error. Card endpoints must not reveal
// whether a key was missing, expired, consumed, or foreign.
func mapKeyError(err error) error {
	switch {
	case apperrors.Is(err, keysDomain.ErrKeyNotFound),
		apperrors.Is(err, keysDomain.ErrKeyExpired),
		apperrors.Is(err, keysDomain.ErrKeyAlreadyUsed),
		apperrors.Is(err, keysDomain.ErrKeyAccessDenied):
		return cardsDomain.ErrEncryptionKeyInvalid
	default:
		return err
	}
}

// CreateEncrypted decrypts the transport payload, validates the card, and
// stores it sealed under the master key.
func (c *cardUseCase) CreateEncrypted(
	ctx context.Context,
	ownerID string,
	keyID uuid.UUID,
	encryptedData string,
) (uuid.UUID, error) {
	plaintexts, err := c.envelope.Unwrap(ctx, keyID, ownerID, encryptedData)
	if err != nil {
		return uuid.Nil, mapKeyError(err)
	}

	var input cardsDomain.CardInput
	if err := json.Unmarshal([]byte(plaintexts[0]), &input); err != nil {
		return uuid.Nil, transportDomain.ErrPayloadCorrupted
	}

	if !cardsDomain.ValidCardNumber(input.CardNumber) {
		return uuid.Nil, cardsDomain.ErrInvalidCardNumber
	}

	status := cardsDomain.CardStatusActive
	if input.Status != "" {
		status, err = cardsDomain.ParseCardStatus(input.Status)
		if err != nil {
			return uuid.Nil, err
		}
	}

	exists, existingID, err := c.detector.Exists(ctx, input.CardNumber, uuid.Nil)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, &cardsDomain.DuplicateCardError{ExistingID: existingID}
	}

	cardType := input.CardType
	if cardType == "" {
		cardType = cardsService.DetectCardNetwork(input.CardNumber)
	}

	sealedNumber, err := c.vault.Seal(input.CardNumber)
	if err != nil {
		return uuid.Nil, err
	}
	sealedCVV, err := c.vault.Seal(input.CVV)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now().UTC()
	card := &cardsDomain.CreditCardRecord{
		ID:               uuid.Must(uuid.NewV7()),
		AccountID:        input.AccountID,
		PersonID:         input.PersonID,
		AccountAddressID: input.AccountAddressID,
		AVSAddressID:     input.AVSAddressID,
		AVSSameAsAccount: input.AVSSameAsAccount,
		IssuerID:         input.IssuerID,
		CardType:         cardType,
		MaskedCardNumber: cardsDomain.MaskCardNumber(input.CardNumber),
		CardNumber:       sealedNumber,
		CVV:              sealedCVV,
		ExpirationMonth:  input.ExpirationMonth,
		ExpirationYear:   input.ExpirationYear,
		Status:           status,
		Nickname:         input.Nickname,
		CreatedAt:        now,
		CreatedBy:        ownerID,
		UpdatedAt:        now,
	}

	// The nickname check and the insert share a transaction to narrow the
	// window for two concurrent creates claiming the same nickname.
	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := c.checkNickname(ctx, card.AccountID, card.Nickname, card.ID); err != nil {
			return err
		}
		return c.cardRepo.Create(ctx, card)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return card.ID, nil
}

// checkNickname enforces nickname uniqueness per account. Cards without an
// account or without a nickname are exempt.
func (c *cardUseCase) checkNickname(
	ctx context.Context,
	accountID *string,
	nickname *string,
	excludeID uuid.UUID,
) error {
	if accountID == nil || nickname == nil || strings.TrimSpace(*nickname) == "" {
		return nil
	}

	count, err := c.cardRepo.CountNickname(ctx, *accountID, strings.TrimSpace(*nickname), excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return cardsDomain.ErrNicknameTaken
	}

	return nil
}

// GetWrapped opens the stored card fields and returns them wrapped under a
// freshly issued transport key.
func (c *cardUseCase) GetWrapped(
	ctx context.Context,
	cardID uuid.UUID,
	ownerID string,
) (*cardsDomain.WrappedCard, error) {
	card, err := c.cardRepo.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}

	cardNumber, err := c.vault.Open(card.CardNumber)
	if err != nil {
		return nil, err
	}
	cvv, err := c.vault.Open(card.CVV)
	if err != nil {
		return nil, err
	}

	var issuerLabel *string
	if card.IssuerID != nil {
		issuer, err := c.issuerRepo.Get(ctx, *card.IssuerID)
		switch {
		case err == nil:
			issuerLabel = &issuer.Label
		case apperrors.Is(err, cardsDomain.ErrIssuerNotFound):
			// Dangling issuer reference; leave the label empty.
		default:
			return nil, err
		}
	}

	view := cardsDomain.CardView{
		ID:               card.ID.String(),
		CardNumber:       cardNumber,
		CVV:              cvv,
		CardType:         card.CardType,
		Issuer:           issuerLabel,
		Expires:          fmt.Sprintf("%02d/%02d", card.ExpirationMonth, card.ExpirationYear%100),
		Status:           string(card.Status),
		Nickname:         card.Nickname,
		MaskedCardNumber: card.MaskedCardNumber,
	}

	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	wrapKeyID, payload, err := c.envelope.Wrap(ctx, ownerID, data)
	if err != nil {
		return nil, err
	}

	return &cardsDomain.WrappedCard{
		EncryptedKeyID: wrapKeyID,
		EncryptedData:  payload,
	}, nil
}

// UpdateEncrypted decrypts the transport payload and applies its fields to
// the card. The duplicate check excludes the card being updated, and only
// changed sensitive fields are re-sealed.
func (c *cardUseCase) UpdateEncrypted(
	ctx context.Context,
	cardID uuid.UUID,
	ownerID string,
	keyID uuid.UUID,
	encryptedData string,
) (*cardsDomain.CreditCardRecord, error) {
	plaintexts, err := c.envelope.Unwrap(ctx, keyID, ownerID, encryptedData)
	if err != nil {
		return nil, mapKeyError(err)
	}

	var input cardsDomain.CardUpdateInput
	if err := json.Unmarshal([]byte(plaintexts[0]), &input); err != nil {
		return nil, transportDomain.ErrPayloadCorrupted
	}

	card, err := c.cardRepo.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if input.CardNumber != "" {
		if !cardsDomain.ValidCardNumber(input.CardNumber) {
			return nil, cardsDomain.ErrInvalidCardNumber
		}

		exists, existingID, err := c.detector.Exists(ctx, input.CardNumber, cardID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &cardsDomain.DuplicateCardError{ExistingID: existingID}
		}

		sealedNumber, err := c.vault.Seal(input.CardNumber)
		if err != nil {
			return nil, err
		}
		card.CardNumber = sealedNumber
		card.MaskedCardNumber = cardsDomain.MaskCardNumber(input.CardNumber)
	}

	if input.CVV != "" {
		sealedCVV, err := c.vault.Seal(input.CVV)
		if err != nil {
			return nil, err
		}
		card.CVV = sealedCVV
	}

	if input.Status != nil {
		status, err := cardsDomain.ParseCardStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		card.Status = status
	}

	if input.AccountID != nil {
		card.AccountID = input.AccountID
	}
	if input.PersonID != nil {
		card.PersonID = input.PersonID
	}
	if input.AccountAddressID != nil {
		card.AccountAddressID = input.AccountAddressID
	}
	if input.AVSAddressID != nil {
		card.AVSAddressID = input.AVSAddressID
	}
	if input.AVSSameAsAccount != nil {
		card.AVSSameAsAccount = *input.AVSSameAsAccount
	}
	if input.IssuerID != nil {
		card.IssuerID = input.IssuerID
	}
	if input.CardType != nil {
		card.CardType = *input.CardType
	}
	if input.ExpirationMonth != nil {
		card.ExpirationMonth = *input.ExpirationMonth
	}
	if input.ExpirationYear != nil {
		card.ExpirationYear = *input.ExpirationYear
	}
	if input.Nickname != nil {
		card.Nickname = input.Nickname
	}

	card.UpdatedAt = time.Now().UTC()

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := c.checkNickname(ctx, card.AccountID, card.Nickname, card.ID); err != nil {
			return err
		}
		return c.cardRepo.Update(ctx, card)
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// List returns a page of cards with masked numbers and metadata only.
func (c *cardUseCase) List(ctx context.Context, offset, limit int) ([]*cardsDomain.CreditCardRecord, error) {
	return c.cardRepo.List(ctx, offset, limit)
}

// UpdateStatus sets the status of every listed card.
func (c *cardUseCase) UpdateStatus(
	ctx context.Context,
	cardIDs []uuid.UUID,
	status string,
) (int64, error) {
	if len(cardIDs) == 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "card_ids cannot be empty")
	}

	parsed, err := cardsDomain.ParseCardStatus(status)
	if err != nil {
		return 0, err
	}

	return c.cardRepo.UpdateStatus(ctx, cardIDs, parsed, time.Now().UTC())
}

// CheckCardNumberExists reports only whether the card number is stored.
func (c *cardUseCase) CheckCardNumberExists(ctx context.Context, cardNumber string) (bool, error) {
	if !cardsDomain.ValidCardNumber(cardNumber) {
		return false, cardsDomain.ErrInvalidCardNumber
	}

	exists, _, err := c.detector.Exists(ctx, cardNumber, uuid.Nil)
	if err != nil {
		return false, err
	}

	return exists, nil
}

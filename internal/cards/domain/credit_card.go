// Package domain defines the credit card entities stored by the vault.
// Card numbers and CVVs only ever exist in plaintext inside a request; at
// rest they are sealed under the master key as independent encrypted fields.
package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
)

// CardStatus represents the lifecycle state of a stored card.
type CardStatus string

// Card statuses. Deleted is a status transition, never a row removal; deleted
// cards are kept for audit retention and excluded from duplicate detection.
const (
	CardStatusActive   CardStatus = "active"
	CardStatusInactive CardStatus = "inactive"
	CardStatusDeleted  CardStatus = "deleted"
)

// ParseCardStatus validates and converts a string to a CardStatus.
func ParseCardStatus(s string) (CardStatus, error) {
	switch CardStatus(s) {
	case CardStatusActive, CardStatusInactive, CardStatusDeleted:
		return CardStatus(s), nil
	default:
		return "", ErrInvalidCardStatus
	}
}

// cardNumberRegex matches plain card numbers: 13 to 19 ASCII digits.
var cardNumberRegex = regexp.MustCompile(`^[0-9]{13,19}$`)

// ValidCardNumber reports whether the plaintext is a plausible card number.
func ValidCardNumber(cardNumber string) bool {
	return cardNumberRegex.MatchString(cardNumber)
}

// MaskCardNumber derives the display form of a card number from its plaintext.
// Always twelve stars plus the last four digits, regardless of the actual
// card number length. Derived once at capture time and never regenerated by
// decrypting the stored ciphertext.
func MaskCardNumber(cardNumber string) string {
	return strings.Repeat("*", 12) + cardNumber[len(cardNumber)-4:]
}

// CreditCardRecord is a stored payment card.
//
// CardNumber and CVV are sealed under the master key with record-unique
// nonces, never with an ephemeral transport key. The directory ids
// (account, person, addresses) are opaque references owned by the external
// account directory.
type CreditCardRecord struct {
	ID               uuid.UUID
	AccountID        *string
	PersonID         *string
	AccountAddressID *string
	AVSAddressID     *string
	AVSSameAsAccount bool
	IssuerID         *uuid.UUID
	CardType         string
	MaskedCardNumber string
	CardNumber       cryptoDomain.EncryptedField
	CVV              cryptoDomain.EncryptedField
	ExpirationMonth  int
	ExpirationYear   int
	Status           CardStatus
	Nickname         *string
	CreatedAt        time.Time
	CreatedBy        string
	UpdatedAt        time.Time
}

// CardNumberCredential is the projection the duplicate detector scans:
// just the record id and its sealed card number.
type CardNumberCredential struct {
	ID         uuid.UUID
	CardNumber cryptoDomain.EncryptedField
}

// CardInput is the plaintext card payload a client encrypts in transit.
// Decoded from the decrypted JSON of a create request.
type CardInput struct {
	CardNumber       string     `json:"card_number"`
	CVV              string     `json:"cvv"`
	AccountID        *string    `json:"account_id,omitempty"`
	PersonID         *string    `json:"person_id,omitempty"`
	AccountAddressID *string    `json:"account_address_id,omitempty"`
	AVSAddressID     *string    `json:"avs_address_id,omitempty"`
	AVSSameAsAccount bool       `json:"avs_same_as_account,omitempty"`
	IssuerID         *uuid.UUID `json:"issuer_id,omitempty"`
	CardType         string     `json:"card_type,omitempty"`
	ExpirationMonth  int        `json:"expiration_month"`
	ExpirationYear   int        `json:"expiration_year"`
	Status           string     `json:"status,omitempty"`
	Nickname         *string    `json:"nickname,omitempty"`
}

// CardUpdateInput is the plaintext payload of an update request. Every field
// is optional; only present fields are applied, and only changed sensitive
// fields are re-sealed.
type CardUpdateInput struct {
	CardNumber       string     `json:"card_number,omitempty"`
	CVV              string     `json:"cvv,omitempty"`
	AccountID        *string    `json:"account_id,omitempty"`
	PersonID         *string    `json:"person_id,omitempty"`
	AccountAddressID *string    `json:"account_address_id,omitempty"`
	AVSAddressID     *string    `json:"avs_address_id,omitempty"`
	AVSSameAsAccount *bool      `json:"avs_same_as_account,omitempty"`
	IssuerID         *uuid.UUID `json:"issuer_id,omitempty"`
	CardType         *string    `json:"card_type,omitempty"`
	ExpirationMonth  *int       `json:"expiration_month,omitempty"`
	ExpirationYear   *int       `json:"expiration_year,omitempty"`
	Status           *string    `json:"status,omitempty"`
	Nickname         *string    `json:"nickname,omitempty"`
}

// WrappedCard is the outbound form of a single card read: the CardView JSON
// encrypted under a freshly issued transport key. The client claims the key
// separately to decrypt it.
type WrappedCard struct {
	EncryptedKeyID uuid.UUID
	EncryptedData  string
}

// CardView is the plaintext response payload for a single card read. It is
// never returned directly: the use case wraps it under a freshly issued
// transport key before it crosses the process boundary.
type CardView struct {
	ID               string  `json:"id"`
	CardNumber       string  `json:"card_number"`
	CVV              string  `json:"cvv"`
	CardType         string  `json:"card_type"`
	Issuer           *string `json:"issuer"`
	Expires          string  `json:"expires"`
	Status           string  `json:"status"`
	Nickname         *string `json:"nickname"`
	MaskedCardNumber string  `json:"masked_card_number"`
}

// Package usecase implements business logic for credit card capture and
// storage. Card data arrives encrypted under single-use transport keys, is
// validated and checked for duplicates in plaintext, and is persisted sealed
// under the master key.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
)

// CardRepository defines the interface for credit card persistence operations.
type CardRepository interface {
	Create(ctx context.Context, card *cardsDomain.CreditCardRecord) error
	Get(ctx context.Context, cardID uuid.UUID) (*cardsDomain.CreditCardRecord, error)
	List(ctx context.Context, offset, limit int) ([]*cardsDomain.CreditCardRecord, error)
	Update(ctx context.Context, card *cardsDomain.CreditCardRecord) error
	UpdateStatus(ctx context.Context, cardIDs []uuid.UUID, status cardsDomain.CardStatus, now time.Time) (int64, error)
	ListCardNumberCredentials(ctx context.Context) ([]cardsDomain.CardNumberCredential, error)
	CountNickname(ctx context.Context, accountID, nickname string, excludeID uuid.UUID) (int64, error)
}

// IssuerRepository defines the interface for card issuer persistence operations.
type IssuerRepository interface {
	Create(ctx context.Context, issuer *cardsDomain.Issuer) error
	Get(ctx context.Context, issuerID uuid.UUID) (*cardsDomain.Issuer, error)
	List(ctx context.Context) ([]*cardsDomain.Issuer, error)
}

// DuplicateDetector reports whether a candidate card number is already stored.
//
// The randomized storage nonces make ciphertext equality useless, so the
// detector opens every non-deleted card number and compares plaintext.
type DuplicateDetector interface {
	// Exists scans stored cards for the candidate number. excludeID skips one
	// record, used by updates to ignore the card being updated. Records that
	// fail to decrypt are skipped.
	Exists(ctx context.Context, candidate string, excludeID uuid.UUID) (bool, uuid.UUID, error)
}

// CardUseCase defines the interface for credit card operations.
type CardUseCase interface {
	// CreateEncrypted decrypts the transport payload, validates the card, and
	// stores it sealed under the master key. Returns the new card id.
	CreateEncrypted(ctx context.Context, ownerID string, keyID uuid.UUID, encryptedData string) (uuid.UUID, error)

	// GetWrapped opens the stored card fields and returns them wrapped under
	// a freshly issued transport key. Plaintext never crosses the boundary.
	GetWrapped(ctx context.Context, cardID uuid.UUID, ownerID string) (*cardsDomain.WrappedCard, error)

	// UpdateEncrypted decrypts the transport payload and applies its fields
	// to the card. Only present fields are applied; only changed sensitive
	// fields are re-sealed.
	UpdateEncrypted(ctx context.Context, cardID uuid.UUID, ownerID string, keyID uuid.UUID, encryptedData string) (*cardsDomain.CreditCardRecord, error)

	// List returns a page of cards with masked numbers and metadata only.
	List(ctx context.Context, offset, limit int) ([]*cardsDomain.CreditCardRecord, error)

	// UpdateStatus sets the status of every listed card and returns the
	// number of updated records.
	UpdateStatus(ctx context.Context, cardIDs []uuid.UUID, status string) (int64, error)

	// CheckCardNumberExists reports only whether the card number is stored.
	// No identifying detail leaves this operation.
	CheckCardNumberExists(ctx context.Context, cardNumber string) (bool, error)
}

// IssuerUseCase defines the interface for card issuer operations.
type IssuerUseCase interface {
	Create(ctx context.Context, label string) (*cardsDomain.Issuer, error)
	List(ctx context.Context) ([]*cardsDomain.Issuer, error)
}

package domain

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ticketops/cardvault/internal/errors"
)

// Credit card error definitions.
var (
	// ErrCardNotFound indicates the requested card does not exist.
	//
	// HTTP Status: 404 Not Found
	ErrCardNotFound = errors.Wrap(errors.ErrNotFound, "credit card not found")

	// ErrInvalidCardNumber indicates the card number is not 13 to 19 ASCII digits.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidCardNumber = errors.Wrap(errors.ErrInvalidInput, "invalid credit card number")

	// ErrInvalidCardStatus indicates an unknown card status value.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidCardStatus = errors.Wrap(errors.ErrInvalidInput, "invalid card status")

	// ErrEncryptionKeyInvalid is the uniform surface for every transport key
	// lifecycle failure during card operations. Not found, expired, consumed,
	// and foreign keys are deliberately indistinguishable here so the key
	// state cannot be probed through card endpoints.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrEncryptionKeyInvalid = errors.Wrap(errors.ErrInvalidInput, "encryption key invalid or expired")

	// ErrNicknameTaken indicates the nickname is already used by another card
	// on the same account.
	//
	// HTTP Status: 409 Conflict
	ErrNicknameTaken = errors.Wrap(errors.ErrConflict, "card nickname already exists for this account")

	// ErrIssuerNotFound indicates the referenced issuer does not exist.
	//
	// HTTP Status: 404 Not Found
	ErrIssuerNotFound = errors.Wrap(errors.ErrNotFound, "card issuer not found")

	// ErrIssuerLabelTaken indicates an issuer with the same label already exists.
	//
	// HTTP Status: 409 Conflict
	ErrIssuerLabelTaken = errors.Wrap(errors.ErrConflict, "card issuer label already exists")
)

// DuplicateCardError indicates the candidate card number is already stored.
// Carries the conflicting record's id so the caller can surface it.
type DuplicateCardError struct {
	ExistingID uuid.UUID
}

// Error implements the error interface.
func (e *DuplicateCardError) Error() string {
	return fmt.Sprintf("credit card number already exists, card id %s", e.ExistingID)
}

// Unwrap makes the error match the conflict sentinel.
func (e *DuplicateCardError) Unwrap() error {
	return errors.ErrConflict
}

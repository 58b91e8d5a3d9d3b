// Package dto provides data transfer objects for credit card HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/ticketops/cardvault/internal/validation"
)

// EncryptedCardRequest carries an envelope-encrypted card payload. The
// encrypted data decrypts to the card fields under the referenced
// single-use key.
type EncryptedCardRequest struct {
	EncryptedKeyID string `json:"encrypted_key_id"`
	EncryptedData  string `json:"encrypted_data"`
}

// Validate validates the encrypted card request.
func (r EncryptedCardRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.EncryptedKeyID,
			validation.Required,
			appValidation.UUID,
		),
		validation.Field(&r.EncryptedData,
			validation.Required,
			appValidation.Base64,
		),
	)
	return appValidation.WrapValidationError(err)
}

// BulkUpdateRequest changes the status of several cards at once.
type BulkUpdateRequest struct {
	CardIDs []string `json:"card_ids"`
	Status  string   `json:"status"`
}

// Validate validates the bulk update request.
func (r BulkUpdateRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.CardIDs,
			validation.Required,
			validation.Each(appValidation.UUID),
		),
		validation.Field(&r.Status,
			validation.Required,
			validation.In("active", "inactive", "deleted"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CheckCardNumberRequest asks whether a card number is already stored.
type CheckCardNumberRequest struct {
	CardNumber string `json:"card_number"`
}

// Validate validates the check card number request.
func (r CheckCardNumberRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.CardNumber,
			validation.Required,
			appValidation.CardNumber,
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateIssuerRequest registers a new card issuer.
type CreateIssuerRequest struct {
	Label string `json:"label"`
}

// Validate validates the create issuer request.
func (r CreateIssuerRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Label,
			validation.Required,
			validation.Length(1, 255),
		),
	)
	return appValidation.WrapValidationError(err)
}

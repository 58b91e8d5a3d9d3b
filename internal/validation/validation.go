// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"
	"regexp"

	validation "github.com/jellydator/validation"

	apperrors "github.com/ticketops/cardvault/internal/errors"
)

// cardNumberRegex matches plain card numbers: 13 to 19 ASCII digits.
var cardNumberRegex = regexp.MustCompile(`^[0-9]{13,19}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Base64 validates that a string is valid base64-encoded data.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	_, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// CardNumber validates that a string is a plausible payment card number.
// Accepts 13 to 19 ASCII digits with no separators. Issuer-specific checks
// live in the issuer detector, not here.
var CardNumber = validation.NewStringRuleWithError(
	func(s string) bool {
		return cardNumberRegex.MatchString(s)
	},
	validation.NewError("validation_card_number", "must be 13 to 19 digits"),
)

// UUID validates that a string is a parseable UUID.
var UUID = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_uuid_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !uuidRegex.MatchString(s) {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
})

var uuidRegex = regexp.MustCompile(
	`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`,
)

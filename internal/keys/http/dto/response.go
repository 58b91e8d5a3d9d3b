// Package dto provides data transfer objects for encryption key HTTP handling.
package dto

import (
	"encoding/base64"
	"time"

	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
)

// KeyResponse represents an encryption key in API responses.
// SECURITY: The Key field contains the raw key material. It is returned at
// issue time and exactly once more when the key is claimed. Must be
// transmitted over HTTPS in production.
type KeyResponse struct {
	KeyID     string    `json:"key_id"`
	Key       string    `json:"encryption_key"`
	Algorithm string    `json:"algorithm"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapKeyToResponse converts a domain key to an API response.
// SECURITY: Caller must zero the raw material from the domain object after
// mapping using cryptoDomain.Zero(key.RawKey).
func MapKeyToResponse(key *keysDomain.EphemeralKey, algorithm string) KeyResponse {
	return KeyResponse{
		KeyID:     key.ID.String(),
		Key:       base64.StdEncoding.EncodeToString(key.RawKey),
		Algorithm: algorithm,
		CreatedAt: key.CreatedAt,
		ExpiresAt: key.ExpiresAt,
	}
}

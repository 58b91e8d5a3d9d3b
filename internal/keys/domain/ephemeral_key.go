// Package domain defines the core domain models for ephemeral encryption keys.
// Ephemeral keys are single-use transport keys handed to clients so that card
// data can be encrypted before it crosses the wire. Each key is valid for a
// short window and is invalidated atomically on first use.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
)

// DefaultTTL is the validity window for a freshly issued ephemeral key.
const DefaultTTL = 7 * time.Minute

// EphemeralKey represents a single-use transport encryption key.
//
// The raw key material is handed to the requesting client exactly once,
// either at issue time or when the key is claimed. At rest the key is sealed
// under the master key; the plaintext never touches the database.
type EphemeralKey struct {
	// ID is the unique identifier returned to the client as key_id.
	ID uuid.UUID
	// OwnerID identifies the account that requested the key. Only the owner
	// may claim it.
	OwnerID string
	// SealedKey holds the raw key material encrypted under the master key.
	SealedKey cryptoDomain.EncryptedField
	// RawKey holds the plaintext key material in memory only; must be zeroed
	// after use. Populated only at issue and claim time.
	RawKey []byte `json:"-"`
	// CreatedAt is the UTC timestamp when the key was issued.
	CreatedAt time.Time
	// ExpiresAt is the UTC timestamp after which the key can no longer be claimed.
	ExpiresAt time.Time
	// ConsumedAt marks when the key was claimed (nil if still available).
	ConsumedAt *time.Time
}

// IsExpired reports whether the key's validity window has passed at the given time.
func (k *EphemeralKey) IsExpired(now time.Time) bool {
	return !now.Before(k.ExpiresAt)
}

// IsConsumed reports whether the key has already been claimed.
func (k *EphemeralKey) IsConsumed() bool {
	return k.ConsumedAt != nil
}

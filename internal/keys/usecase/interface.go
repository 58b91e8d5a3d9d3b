// Package usecase implements business logic for ephemeral encryption keys.
// The key vault issues single-use transport keys, enforces their validity
// window, and hands the raw key material to the card capture flow exactly once.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
)

// EphemeralKeyRepository defines the interface for ephemeral key persistence operations.
type EphemeralKeyRepository interface {
	Create(ctx context.Context, key *keysDomain.EphemeralKey) error
	Get(ctx context.Context, keyID uuid.UUID) (*keysDomain.EphemeralKey, error)
	Consume(ctx context.Context, keyID uuid.UUID, ownerID string, now time.Time) (*keysDomain.EphemeralKey, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// KeyVaultUseCase defines the interface for ephemeral key management.
type KeyVaultUseCase interface {
	// Issue creates a new single-use key for the owner.
	//
	// Security Note: The returned key contains plaintext material in the
	// RawKey field. Callers MUST zero it after use by calling
	// cryptoDomain.Zero(key.RawKey).
	Issue(ctx context.Context, ownerID string) (*keysDomain.EphemeralKey, error)

	// Claim atomically consumes the key and returns it with the RawKey
	// field populated. A key can be claimed exactly once; later claims
	// report why the key is no longer available.
	//
	// Security Note: Callers MUST zero key.RawKey after use.
	Claim(ctx context.Context, keyID uuid.UUID, ownerID string) (*keysDomain.EphemeralKey, error)

	// CleanExpired deletes keys whose validity window ended more than
	// retention ago. Returns the number of deleted keys.
	CleanExpired(ctx context.Context, retention time.Duration) (int64, error)
}

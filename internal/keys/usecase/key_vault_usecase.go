package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/ticketops/cardvault/internal/crypto/service"
	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
)

// keyVaultUseCase implements the KeyVaultUseCase interface.
type keyVaultUseCase struct {
	keyRepo EphemeralKeyRepository
	vault   cryptoService.Vault
	ttl     time.Duration
}

// NewKeyVaultUseCase creates a new KeyVaultUseCase.
//
// The storage vault is used to seal raw key material under the master key
// before persistence. A non-positive ttl falls back to the default validity
// window.
func NewKeyVaultUseCase(
	keyRepo EphemeralKeyRepository,
	vault cryptoService.Vault,
	ttl time.Duration,
) KeyVaultUseCase {
	if ttl <= 0 {
		ttl = keysDomain.DefaultTTL
	}

	return &keyVaultUseCase{
		keyRepo: keyRepo,
		vault:   vault,
		ttl:     ttl,
	}
}

// Issue creates a new single-use key for the owner.
//
// The raw key is generated with crypto/rand, sealed under the master key for
// persistence, and returned in plaintext exactly once via the RawKey field.
func (k *keyVaultUseCase) Issue(ctx context.Context, ownerID string) (*keysDomain.EphemeralKey, error) {
	rawKey, err := cryptoService.GenerateKey()
	if err != nil {
		return nil, err
	}

	sealedKey, err := k.vault.SealBytes(rawKey)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key := &keysDomain.EphemeralKey{
		ID:        uuid.Must(uuid.NewV7()),
		OwnerID:   ownerID,
		SealedKey: sealedKey,
		RawKey:    rawKey,
		CreatedAt: now,
		ExpiresAt: now.Add(k.ttl),
	}

	if err := k.keyRepo.Create(ctx, key); err != nil {
		return nil, err
	}

	return key, nil
}

// Claim atomically consumes the key and returns it with RawKey populated.
//
// The conditional update in the repository guarantees a key is handed out at
// most once even under concurrent claims. The sealed material is opened with
// the master key after the claim succeeds.
func (k *keyVaultUseCase) Claim(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
) (*keysDomain.EphemeralKey, error) {
	now := time.Now().UTC()

	key, err := k.keyRepo.Consume(ctx, keyID, ownerID, now)
	if err != nil {
		return nil, err
	}

	key.RawKey, err = k.vault.OpenBytes(key.SealedKey)
	if err != nil {
		return nil, err
	}

	return key, nil
}

// CleanExpired deletes keys whose validity window ended more than retention ago.
func (k *keyVaultUseCase) CleanExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return k.keyRepo.DeleteExpired(ctx, cutoff)
}

// Package usecase implements the transport envelope, the bridge between
// client-side encryption and the card vault. It claims the single-use key a
// client encrypted with and decrypts the accompanying payloads, and wraps
// outgoing plaintext under freshly issued keys.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
	cryptoService "github.com/ticketops/cardvault/internal/crypto/service"
	keysUseCase "github.com/ticketops/cardvault/internal/keys/usecase"
	transportDomain "github.com/ticketops/cardvault/internal/transport/domain"
)

// EnvelopeUseCase defines the interface for transport envelope operations.
type EnvelopeUseCase interface {
	// Unwrap claims the ephemeral key once and decrypts every payload with it.
	//
	// All payloads of one request ride on a single key claim. Decryption
	// failures are reported as the generic ErrDecryptionFailed.
	Unwrap(ctx context.Context, keyID uuid.UUID, ownerID string, payloads ...string) ([]string, error)

	// Wrap issues a fresh single-use key for the owner and encrypts the
	// plaintext under it. The returned key ID identifies the consumed-on-read
	// key the recipient must claim to decrypt the payload.
	Wrap(ctx context.Context, ownerID string, plaintext []byte) (uuid.UUID, string, error)
}

// envelopeUseCase implements EnvelopeUseCase on top of the key vault.
type envelopeUseCase struct {
	keyVault    keysUseCase.KeyVaultUseCase
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewEnvelopeUseCase creates a new EnvelopeUseCase.
// Transport payloads are always AES-256-GCM; the algorithm is configurable
// only so tests can exercise alternatives.
func NewEnvelopeUseCase(
	keyVault keysUseCase.KeyVaultUseCase,
	aeadManager cryptoService.AEADManager,
	algorithm cryptoDomain.Algorithm,
) EnvelopeUseCase {
	return &envelopeUseCase{
		keyVault:    keyVault,
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}

// Unwrap claims the ephemeral key once and decrypts every payload with it.
//
// Payloads are decoded before the key is claimed, so a malformed payload
// rejects the request without burning the key. Once the claim succeeds the
// key is spent regardless of whether decryption succeeds.
func (e *envelopeUseCase) Unwrap(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
	payloads ...string,
) ([]string, error) {
	decoded := make([]*transportDomain.EncryptedPayload, 0, len(payloads))
	for _, payload := range payloads {
		p, err := transportDomain.Decode(payload)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, p)
	}

	key, err := e.keyVault.Claim(ctx, keyID, ownerID)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key.RawKey)

	cipher, err := e.aeadManager.CreateCipher(key.RawKey, e.algorithm)
	if err != nil {
		return nil, err
	}

	plaintexts := make([]string, 0, len(decoded))
	for _, p := range decoded {
		plaintext, err := cipher.Decrypt(p.Ciphertext, p.Nonce, nil)
		if err != nil {
			return nil, cryptoDomain.ErrDecryptionFailed
		}
		plaintexts = append(plaintexts, string(plaintext))
	}

	return plaintexts, nil
}

// Wrap issues a fresh single-use key and encrypts the plaintext under it.
//
// The raw key material is zeroed before returning; the recipient recovers it
// by claiming the key through the vault.
func (e *envelopeUseCase) Wrap(
	ctx context.Context,
	ownerID string,
	plaintext []byte,
) (uuid.UUID, string, error) {
	key, err := e.keyVault.Issue(ctx, ownerID)
	if err != nil {
		return uuid.Nil, "", err
	}
	defer cryptoDomain.Zero(key.RawKey)

	cipher, err := e.aeadManager.CreateCipher(key.RawKey, e.algorithm)
	if err != nil {
		return uuid.Nil, "", err
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return uuid.Nil, "", err
	}

	return key.ID, transportDomain.Encode(nonce, ciphertext), nil
}

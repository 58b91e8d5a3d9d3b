package usecase

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
	cryptoService "github.com/ticketops/cardvault/internal/crypto/service"
	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
	keysMocks "github.com/ticketops/cardvault/internal/keys/http/mocks"
	transportDomain "github.com/ticketops/cardvault/internal/transport/domain"
)

// encryptPayload builds a wire payload the way a client would.
func encryptPayload(t *testing.T, rawKey []byte, plaintext string) string {
	t.Helper()

	cipher, err := cryptoService.NewAESGCM(rawKey)
	require.NoError(t, err)

	ciphertext, nonce, err := cipher.Encrypt([]byte(plaintext), nil)
	require.NoError(t, err)

	return transportDomain.Encode(nonce, ciphertext)
}

// claimedKey builds the key the vault hands back after a successful claim.
// The raw material is copied because Unwrap zeroes it.
func claimedKey(keyID uuid.UUID, rawKey []byte) *keysDomain.EphemeralKey {
	return &keysDomain.EphemeralKey{
		ID:      keyID,
		OwnerID: "account-123",
		RawKey:  bytes.Clone(rawKey),
	}
}

func TestEnvelopeUseCase_Unwrap(t *testing.T) {
	keyID := uuid.Must(uuid.NewV7())

	t.Run("decrypts multiple payloads with one claim", func(t *testing.T) {
		rawKey, err := cryptoService.GenerateKey()
		require.NoError(t, err)

		cardPayload := encryptPayload(t, rawKey, "4111111111111111")
		cvvPayload := encryptPayload(t, rawKey, "123")

		keyVault := &keysMocks.MockKeyVaultUseCase{}
		keyVault.On("Claim", mock.Anything, keyID, "account-123").
			Return(claimedKey(keyID, rawKey), nil).Once()

		uc := NewEnvelopeUseCase(keyVault, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
		plaintexts, err := uc.Unwrap(context.Background(), keyID, "account-123", cardPayload, cvvPayload)

		require.NoError(t, err)
		assert.Equal(t, []string{"4111111111111111", "123"}, plaintexts)
		keyVault.AssertExpectations(t)
	})

	t.Run("malformed payload rejected before the key is claimed", func(t *testing.T) {
		keyVault := &keysMocks.MockKeyVaultUseCase{}

		uc := NewEnvelopeUseCase(keyVault, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
		_, err := uc.Unwrap(context.Background(), keyID, "account-123", "not base64!!!")

		assert.ErrorIs(t, err, transportDomain.ErrInvalidPayloadEncoding)
		keyVault.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("claim errors are propagated", func(t *testing.T) {
		rawKey, err := cryptoService.GenerateKey()
		require.NoError(t, err)
		payload := encryptPayload(t, rawKey, "4111111111111111")

		for _, wantErr := range []error{
			keysDomain.ErrKeyNotFound,
			keysDomain.ErrKeyExpired,
			keysDomain.ErrKeyAlreadyUsed,
		} {
			keyVault := &keysMocks.MockKeyVaultUseCase{}
			keyVault.On("Claim", mock.Anything, keyID, "account-123").Return(nil, wantErr).Once()

			uc := NewEnvelopeUseCase(keyVault, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
			_, err := uc.Unwrap(context.Background(), keyID, "account-123", payload)

			assert.ErrorIs(t, err, wantErr)
		}
	})

	t.Run("payload encrypted with another key fails generically", func(t *testing.T) {
		rawKey, err := cryptoService.GenerateKey()
		require.NoError(t, err)
		otherKey, err := cryptoService.GenerateKey()
		require.NoError(t, err)

		payload := encryptPayload(t, otherKey, "4111111111111111")

		keyVault := &keysMocks.MockKeyVaultUseCase{}
		keyVault.On("Claim", mock.Anything, keyID, "account-123").
			Return(claimedKey(keyID, rawKey), nil).Once()

		uc := NewEnvelopeUseCase(keyVault, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
		_, err = uc.Unwrap(context.Background(), keyID, "account-123", payload)

		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered payload fails generically", func(t *testing.T) {
		rawKey, err := cryptoService.GenerateKey()
		require.NoError(t, err)

		payload := encryptPayload(t, rawKey, "4111111111111111")
		decoded, err := transportDomain.Decode(payload)
		require.NoError(t, err)
		decoded.Ciphertext[0] ^= 0xff
		tampered := transportDomain.Encode(decoded.Nonce, decoded.Ciphertext)

		keyVault := &keysMocks.MockKeyVaultUseCase{}
		keyVault.On("Claim", mock.Anything, keyID, "account-123").
			Return(claimedKey(keyID, rawKey), nil).Once()

		uc := NewEnvelopeUseCase(keyVault, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
		_, err = uc.Unwrap(context.Background(), keyID, "account-123", tampered)

		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestEnvelopeUseCase_Wrap(t *testing.T) {
	t.Run("wraps plaintext under a freshly issued key", func(t *testing.T) {
		rawKey, err := cryptoService.GenerateKey()
		require.NoError(t, err)
		keyID := uuid.Must(uuid.NewV7())

		keyVault := &keysMocks.MockKeyVaultUseCase{}
		keyVault.On("Issue", mock.Anything, "account-123").
			Return(claimedKey(keyID, rawKey), nil).Once()

		uc := NewEnvelopeUseCase(keyVault, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
		gotKeyID, payload, err := uc.Wrap(context.Background(), "account-123", []byte(`{"card_number":"4111111111111111"}`))

		require.NoError(t, err)
		assert.Equal(t, keyID, gotKeyID)

		// A client holding the key can open the payload.
		decoded, err := transportDomain.Decode(payload)
		require.NoError(t, err)
		cipher, err := cryptoService.NewAESGCM(rawKey)
		require.NoError(t, err)
		plaintext, err := cipher.Decrypt(decoded.Ciphertext, decoded.Nonce, nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"card_number":"4111111111111111"}`, string(plaintext))

		keyVault.AssertExpectations(t)
	})

	t.Run("issue failure is returned", func(t *testing.T) {
		keyVault := &keysMocks.MockKeyVaultUseCase{}
		keyVault.On("Issue", mock.Anything, "account-123").Return(nil, assert.AnError).Once()

		uc := NewEnvelopeUseCase(keyVault, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
		_, _, err := uc.Wrap(context.Background(), "account-123", []byte("data"))

		assert.ErrorIs(t, err, assert.AnError)
	})
}

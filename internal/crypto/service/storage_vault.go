package service

import (
	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
)

// StorageVault encrypts and decrypts data at rest under the master key.
//
// Every sensitive column in the database (card numbers, CVVs, and persisted
// ephemeral key material) passes through the vault before being written and
// after being read. Each Seal call generates a fresh random nonce, so sealing
// the same plaintext twice yields different ciphertexts.
//
// Decryption failures are collapsed into the generic ErrDecryptionFailed so
// that callers (and API clients) cannot distinguish a wrong key from a
// tampered ciphertext.
type StorageVault struct {
	cipher AEAD
}

// NewStorageVault creates a StorageVault bound to the master key and algorithm.
//
// Returns ErrInvalidKeySize or ErrUnsupportedAlgorithm if the master key or
// algorithm are invalid.
func NewStorageVault(
	masterKey *cryptoDomain.MasterKey,
	alg cryptoDomain.Algorithm,
	aeadManager AEADManager,
) (*StorageVault, error) {
	cipher, err := aeadManager.CreateCipher(masterKey.Key, alg)
	if err != nil {
		return nil, err
	}

	return &StorageVault{cipher: cipher}, nil
}

// Seal encrypts a plaintext string for storage.
func (v *StorageVault) Seal(plaintext string) (cryptoDomain.EncryptedField, error) {
	return v.SealBytes([]byte(plaintext))
}

// Open decrypts a stored field back into its plaintext string.
// Returns ErrDecryptionFailed on any authentication or decryption failure.
func (v *StorageVault) Open(field cryptoDomain.EncryptedField) (string, error) {
	plaintext, err := v.OpenBytes(field)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// SealBytes encrypts raw bytes for storage.
func (v *StorageVault) SealBytes(plaintext []byte) (cryptoDomain.EncryptedField, error) {
	ciphertext, nonce, err := v.cipher.Encrypt(plaintext, nil)
	if err != nil {
		return cryptoDomain.EncryptedField{}, err
	}

	return cryptoDomain.EncryptedField{Ciphertext: ciphertext, Nonce: nonce}, nil
}

// OpenBytes decrypts a stored field back into raw bytes.
// Returns ErrDecryptionFailed on any authentication or decryption failure.
func (v *StorageVault) OpenBytes(field cryptoDomain.EncryptedField) ([]byte, error) {
	plaintext, err := v.cipher.Decrypt(field.Ciphertext, field.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

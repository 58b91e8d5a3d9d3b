// Package service provides cryptographic services for the card vault.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305) used for transport
// decryption and storage encryption.
package service

import (
	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Vault defines the interface for encrypting and decrypting data at rest
// under the master key.
type Vault interface {
	// Seal encrypts a plaintext string for storage.
	Seal(plaintext string) (cryptoDomain.EncryptedField, error)

	// Open decrypts a stored field back into its plaintext string.
	Open(field cryptoDomain.EncryptedField) (string, error)

	// SealBytes encrypts raw bytes for storage.
	SealBytes(plaintext []byte) (cryptoDomain.EncryptedField, error)

	// OpenBytes decrypts a stored field back into raw bytes.
	OpenBytes(field cryptoDomain.EncryptedField) ([]byte, error)
}

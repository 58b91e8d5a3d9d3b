package domain

import (
	"encoding/base64"
	"fmt"
)

// KeySize is the required size in bytes for all cryptographic keys.
//
// Both AES-256-GCM and ChaCha20-Poly1305 require 256-bit (32-byte) keys.
const KeySize = 32

// MasterKey represents the long-lived key that protects data at rest.
//
// The master key sits at the root of the envelope encryption hierarchy: card
// data and persisted ephemeral key material are sealed under it before being
// written to the database. It is loaded once at startup from configuration
// and held in memory for the lifetime of the process.
//
// Security considerations:
//   - The key must be exactly 32 bytes (256 bits)
//   - Generate it with a cryptographically secure random generator
//   - Call Close during shutdown to clear the key material from memory
type MasterKey struct {
	Key []byte
}

// NewMasterKeyFromBase64 builds a MasterKey from a base64-encoded string.
//
// The encoded value must decode to exactly 32 bytes. This is the format
// produced by the create-master-key command and consumed from the
// MASTER_ENCRYPTION_KEY environment variable.
//
// Returns:
//   - ErrMasterKeyNotSet if the encoded value is empty
//   - ErrInvalidMasterKeyBase64 if base64 decoding fails
//   - ErrInvalidKeySize if the decoded key is not exactly 32 bytes
func NewMasterKeyFromBase64(encoded string) (*MasterKey, error) {
	if encoded == "" {
		return nil, ErrMasterKeyNotSet
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}
	if len(key) != KeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}

	return &MasterKey{Key: key}, nil
}

// Close securely clears the master key material from memory.
//
// Call this during application shutdown. The MasterKey must not be used
// after Close returns.
func (m *MasterKey) Close() {
	Zero(m.Key)
	m.Key = nil
}

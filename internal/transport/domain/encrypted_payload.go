// Package domain defines the wire format for encrypted transport payloads.
// Clients encrypt sensitive values with an ephemeral key and send them as a
// single base64 string of nonce, ciphertext, and authentication tag.
package domain

import (
	"encoding/base64"

	"github.com/ticketops/cardvault/internal/errors"
)

const (
	// NonceSize is the AEAD nonce length in bytes prefixed to every payload.
	NonceSize = 12
	// TagSize is the authentication tag length in bytes appended by the AEAD cipher.
	TagSize = 16
)

// Transport payload error definitions.
var (
	// ErrInvalidPayloadEncoding indicates the payload is not valid base64 or is
	// too short to contain a nonce and authentication tag.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidPayloadEncoding = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted payload encoding")

	// ErrPayloadCorrupted indicates the payload decrypted successfully but its
	// plaintext is not the structure the operation expects.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrPayloadCorrupted = errors.Wrap(errors.ErrInvalidInput, "decrypted payload is corrupted")
)

// EncryptedPayload is a decoded transport payload.
//
// The ciphertext retains the authentication tag appended by the cipher; the
// split between ciphertext and tag happens inside the AEAD implementation.
type EncryptedPayload struct {
	Nonce      []byte
	Ciphertext []byte
}

// Decode parses a base64 wire payload into its nonce and ciphertext parts.
//
// The wire layout is base64(nonce || ciphertext || tag). A payload shorter
// than nonce plus tag cannot be valid, even for empty plaintext.
func Decode(encoded string) (*EncryptedPayload, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidPayloadEncoding
	}
	if len(raw) < NonceSize+TagSize {
		return nil, ErrInvalidPayloadEncoding
	}

	return &EncryptedPayload{
		Nonce:      raw[:NonceSize],
		Ciphertext: raw[NonceSize:],
	}, nil
}

// Encode builds the base64 wire form from a nonce and tag-bearing ciphertext.
func Encode(nonce, ciphertext []byte) string {
	raw := make([]byte, 0, len(nonce)+len(ciphertext))
	raw = append(raw, nonce...)
	raw = append(raw, ciphertext...)
	return base64.StdEncoding.EncodeToString(raw)
}

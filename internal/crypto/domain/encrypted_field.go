package domain

// EncryptedField holds one encrypted value as it is stored at rest.
//
// The ciphertext includes the 16-byte authentication tag appended by the
// AEAD cipher. The nonce is stored alongside the ciphertext because it is
// required for decryption and is not secret.
type EncryptedField struct {
	Ciphertext []byte
	Nonce      []byte
}

// IsZero reports whether the field holds no encrypted data.
func (f EncryptedField) IsZero() bool {
	return len(f.Ciphertext) == 0 && len(f.Nonce) == 0
}

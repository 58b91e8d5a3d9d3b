package app

import (
	"fmt"

	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
	transportUseCase "github.com/ticketops/cardvault/internal/transport/usecase"
)

// EnvelopeUseCase returns the transport envelope use case.
func (c *Container) EnvelopeUseCase() (transportUseCase.EnvelopeUseCase, error) {
	var err error
	c.envelopeInit.Do(func() {
		c.envelopeUseCase, err = c.initEnvelopeUseCase()
		if err != nil {
			c.initErrors["envelopeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeUseCase"]; exists {
		return nil, storedErr
	}
	return c.envelopeUseCase, nil
}

// initEnvelopeUseCase creates the envelope use case on top of the key vault.
// Transport envelopes are always AES-256-GCM regardless of the storage
// algorithm; clients encrypt against a fixed, documented format.
func (c *Container) initEnvelopeUseCase() (transportUseCase.EnvelopeUseCase, error) {
	keyVaultUseCase, err := c.KeyVaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key vault use case for envelope use case: %w", err)
	}

	return transportUseCase.NewEnvelopeUseCase(
		keyVaultUseCase,
		c.AEADManager(),
		cryptoDomain.AESGCM,
	), nil
}

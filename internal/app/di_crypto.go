package app

import (
	"fmt"

	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
	cryptoService "github.com/ticketops/cardvault/internal/crypto/service"
)

// MasterKey returns the master key loaded from configuration.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// StorageVault returns the storage vault bound to the master key.
func (c *Container) StorageVault() (*cryptoService.StorageVault, error) {
	var err error
	c.storageVaultInit.Do(func() {
		c.storageVault, err = c.initStorageVault()
		if err != nil {
			c.initErrors["storageVault"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storageVault"]; exists {
		return nil, storedErr
	}
	return c.storageVault, nil
}

// initMasterKey decodes and validates the configured master key.
// Startup fails fast on a missing or malformed key; running without one
// would leave card data unprotected.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	if c.config.MasterEncryptionKey == "" {
		return nil, fmt.Errorf("MASTER_ENCRYPTION_KEY is not set")
	}

	masterKey, err := cryptoDomain.NewMasterKeyFromBase64(c.config.MasterEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}

	return masterKey, nil
}

// initStorageVault creates the storage vault from the master key and the
// configured algorithm.
func (c *Container) initStorageVault() (*cryptoService.StorageVault, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, err
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.StorageAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storage algorithm: %w", err)
	}

	vault, err := cryptoService.NewStorageVault(masterKey, algorithm, c.AEADManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create storage vault: %w", err)
	}

	return vault, nil
}

package app

import (
	"fmt"

	keysRepository "github.com/ticketops/cardvault/internal/keys/repository"
	keysUseCase "github.com/ticketops/cardvault/internal/keys/usecase"
)

// KeyRepository returns the ephemeral key repository based on the database driver.
func (c *Container) KeyRepository() (keysUseCase.EphemeralKeyRepository, error) {
	var err error
	c.keyRepoInit.Do(func() {
		c.keyRepo, err = c.initKeyRepository()
		if err != nil {
			c.initErrors["keyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRepo"]; exists {
		return nil, storedErr
	}
	return c.keyRepo, nil
}

// KeyVaultUseCase returns the ephemeral key vault use case.
func (c *Container) KeyVaultUseCase() (keysUseCase.KeyVaultUseCase, error) {
	var err error
	c.keyVaultInit.Do(func() {
		c.keyVaultUseCase, err = c.initKeyVaultUseCase()
		if err != nil {
			c.initErrors["keyVaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyVaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyVaultUseCase, nil
}

// initKeyRepository creates the ephemeral key repository based on the database driver.
func (c *Container) initKeyRepository() (keysUseCase.EphemeralKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return keysRepository.NewPostgreSQLKeyRepository(db), nil
	case "mysql":
		return keysRepository.NewMySQLKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initKeyVaultUseCase creates the key vault use case with all its dependencies.
func (c *Container) initKeyVaultUseCase() (keysUseCase.KeyVaultUseCase, error) {
	keyRepo, err := c.KeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get key repository for key vault use case: %w", err)
	}

	vault, err := c.StorageVault()
	if err != nil {
		return nil, fmt.Errorf("failed to get storage vault for key vault use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for key vault use case: %w", err)
	}

	useCase := keysUseCase.NewKeyVaultUseCase(keyRepo, vault, c.config.EphemeralKeyTTL)
	return keysUseCase.NewKeyVaultUseCaseWithMetrics(useCase, businessMetrics), nil
}

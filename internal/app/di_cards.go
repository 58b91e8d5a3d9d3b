package app

import (
	"fmt"

	cardsRepository "github.com/ticketops/cardvault/internal/cards/repository"
	cardsUseCase "github.com/ticketops/cardvault/internal/cards/usecase"
)

// duplicateScanConcurrency bounds the parallel decrypt-and-compare scan.
const duplicateScanConcurrency = 8

// CardRepository returns the card repository based on the database driver.
func (c *Container) CardRepository() (cardsUseCase.CardRepository, error) {
	var err error
	c.cardRepoInit.Do(func() {
		c.cardRepo, err = c.initCardRepository()
		if err != nil {
			c.initErrors["cardRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardRepo"]; exists {
		return nil, storedErr
	}
	return c.cardRepo, nil
}

// IssuerRepository returns the issuer repository based on the database driver.
func (c *Container) IssuerRepository() (cardsUseCase.IssuerRepository, error) {
	var err error
	c.issuerRepoInit.Do(func() {
		c.issuerRepo, err = c.initIssuerRepository()
		if err != nil {
			c.initErrors["issuerRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["issuerRepo"]; exists {
		return nil, storedErr
	}
	return c.issuerRepo, nil
}

// CardUseCase returns the card use case.
func (c *Container) CardUseCase() (cardsUseCase.CardUseCase, error) {
	var err error
	c.cardUseCaseInit.Do(func() {
		c.cardUseCase, err = c.initCardUseCase()
		if err != nil {
			c.initErrors["cardUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cardUseCase"]; exists {
		return nil, storedErr
	}
	return c.cardUseCase, nil
}

// IssuerUseCase returns the issuer use case.
func (c *Container) IssuerUseCase() (cardsUseCase.IssuerUseCase, error) {
	var err error
	c.issuerUseCaseInit.Do(func() {
		c.issuerUseCase, err = c.initIssuerUseCase()
		if err != nil {
			c.initErrors["issuerUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["issuerUseCase"]; exists {
		return nil, storedErr
	}
	return c.issuerUseCase, nil
}

// initCardRepository creates the card repository based on the database driver.
func (c *Container) initCardRepository() (cardsUseCase.CardRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for card repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return cardsRepository.NewPostgreSQLCardRepository(db), nil
	case "mysql":
		return cardsRepository.NewMySQLCardRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initIssuerRepository creates the issuer repository based on the database driver.
func (c *Container) initIssuerRepository() (cardsUseCase.IssuerRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for issuer repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return cardsRepository.NewPostgreSQLIssuerRepository(db), nil
	case "mysql":
		return cardsRepository.NewMySQLIssuerRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCardUseCase creates the card use case with all its dependencies.
func (c *Container) initCardUseCase() (cardsUseCase.CardUseCase, error) {
	cardRepo, err := c.CardRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get card repository for card use case: %w", err)
	}

	issuerRepo, err := c.IssuerRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuer repository for card use case: %w", err)
	}

	vault, err := c.StorageVault()
	if err != nil {
		return nil, fmt.Errorf("failed to get storage vault for card use case: %w", err)
	}

	envelopeUseCase, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for card use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for card use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for card use case: %w", err)
	}

	detector := cardsUseCase.NewDuplicateDetector(cardRepo, vault, duplicateScanConcurrency, c.Logger())
	useCase := cardsUseCase.NewCardUseCase(cardRepo, issuerRepo, detector, vault, envelopeUseCase, txManager)

	return cardsUseCase.NewCardUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initIssuerUseCase creates the issuer use case.
func (c *Container) initIssuerUseCase() (cardsUseCase.IssuerUseCase, error) {
	issuerRepo, err := c.IssuerRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuer repository for issuer use case: %w", err)
	}

	return cardsUseCase.NewIssuerUseCase(issuerRepo), nil
}

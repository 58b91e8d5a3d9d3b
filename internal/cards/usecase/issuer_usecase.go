package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	apperrors "github.com/ticketops/cardvault/internal/errors"
)

// issuerUseCase implements the IssuerUseCase interface.
type issuerUseCase struct {
	issuerRepo IssuerRepository
}

// NewIssuerUseCase creates a new IssuerUseCase.
func NewIssuerUseCase(issuerRepo IssuerRepository) IssuerUseCase {
	return &issuerUseCase{issuerRepo: issuerRepo}
}

// Create adds a new card issuer. Labels are unique.
func (i *issuerUseCase) Create(ctx context.Context, label string) (*cardsDomain.Issuer, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "issuer label cannot be empty")
	}

	issuer := &cardsDomain.Issuer{
		ID:        uuid.Must(uuid.NewV7()),
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}

	if err := i.issuerRepo.Create(ctx, issuer); err != nil {
		return nil, err
	}

	return issuer, nil
}

// List returns every known card issuer.
func (i *issuerUseCase) List(ctx context.Context) ([]*cardsDomain.Issuer, error) {
	return i.issuerRepo.List(ctx)
}

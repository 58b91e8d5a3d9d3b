package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
)

// MockIssuerRepository is a mock implementation of IssuerRepository for testing.
type MockIssuerRepository struct {
	mock.Mock
}

// Create mocks the Create method of IssuerRepository.
func (m *MockIssuerRepository) Create(ctx context.Context, issuer *cardsDomain.Issuer) error {
	args := m.Called(ctx, issuer)
	return args.Error(0)
}

// Get mocks the Get method of IssuerRepository.
func (m *MockIssuerRepository) Get(
	ctx context.Context,
	issuerID uuid.UUID,
) (*cardsDomain.Issuer, error) {
	args := m.Called(ctx, issuerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardsDomain.Issuer), args.Error(1)
}

// List mocks the List method of IssuerRepository.
func (m *MockIssuerRepository) List(ctx context.Context) ([]*cardsDomain.Issuer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cardsDomain.Issuer), args.Error(1)
}

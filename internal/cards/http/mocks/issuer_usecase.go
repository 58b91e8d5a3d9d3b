package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
)

// MockIssuerUseCase is a mock implementation of IssuerUseCase for testing.
type MockIssuerUseCase struct {
	mock.Mock
}

// Create mocks the Create method of IssuerUseCase.
func (m *MockIssuerUseCase) Create(ctx context.Context, label string) (*cardsDomain.Issuer, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardsDomain.Issuer), args.Error(1)
}

// List mocks the List method of IssuerUseCase.
func (m *MockIssuerUseCase) List(ctx context.Context) ([]*cardsDomain.Issuer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cardsDomain.Issuer), args.Error(1)
}

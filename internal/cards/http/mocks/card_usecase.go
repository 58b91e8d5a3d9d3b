// Package mocks provides mock implementations for testing card HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
)

// MockCardUseCase is a mock implementation of CardUseCase for testing.
type MockCardUseCase struct {
	mock.Mock
}

// CreateEncrypted mocks the CreateEncrypted method of CardUseCase.
func (m *MockCardUseCase) CreateEncrypted(
	ctx context.Context,
	ownerID string,
	keyID uuid.UUID,
	encryptedData string,
) (uuid.UUID, error) {
	args := m.Called(ctx, ownerID, keyID, encryptedData)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// GetWrapped mocks the GetWrapped method of CardUseCase.
func (m *MockCardUseCase) GetWrapped(
	ctx context.Context,
	cardID uuid.UUID,
	ownerID string,
) (*cardsDomain.WrappedCard, error) {
	args := m.Called(ctx, cardID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardsDomain.WrappedCard), args.Error(1)
}

// UpdateEncrypted mocks the UpdateEncrypted method of CardUseCase.
func (m *MockCardUseCase) UpdateEncrypted(
	ctx context.Context,
	cardID uuid.UUID,
	ownerID string,
	keyID uuid.UUID,
	encryptedData string,
) (*cardsDomain.CreditCardRecord, error) {
	args := m.Called(ctx, cardID, ownerID, keyID, encryptedData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardsDomain.CreditCardRecord), args.Error(1)
}

// List mocks the List method of CardUseCase.
func (m *MockCardUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*cardsDomain.CreditCardRecord, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cardsDomain.CreditCardRecord), args.Error(1)
}

// UpdateStatus mocks the UpdateStatus method of CardUseCase.
func (m *MockCardUseCase) UpdateStatus(
	ctx context.Context,
	cardIDs []uuid.UUID,
	status string,
) (int64, error) {
	args := m.Called(ctx, cardIDs, status)
	return args.Get(0).(int64), args.Error(1)
}

// CheckCardNumberExists mocks the CheckCardNumberExists method of CardUseCase.
func (m *MockCardUseCase) CheckCardNumberExists(
	ctx context.Context,
	cardNumber string,
) (bool, error) {
	args := m.Called(ctx, cardNumber)
	return args.Bool(0), args.Error(1)
}

// Package mocks provides mock implementations for testing card use cases.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
)

// MockCardRepository is a mock implementation of CardRepository for testing.
type MockCardRepository struct {
	mock.Mock
}

// Create mocks the Create method of CardRepository.
func (m *MockCardRepository) Create(ctx context.Context, card *cardsDomain.CreditCardRecord) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// Get mocks the Get method of CardRepository.
func (m *MockCardRepository) Get(
	ctx context.Context,
	cardID uuid.UUID,
) (*cardsDomain.CreditCardRecord, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardsDomain.CreditCardRecord), args.Error(1)
}

// List mocks the List method of CardRepository.
func (m *MockCardRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*cardsDomain.CreditCardRecord, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cardsDomain.CreditCardRecord), args.Error(1)
}

// Update mocks the Update method of CardRepository.
func (m *MockCardRepository) Update(ctx context.Context, card *cardsDomain.CreditCardRecord) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// UpdateStatus mocks the UpdateStatus method of CardRepository.
func (m *MockCardRepository) UpdateStatus(
	ctx context.Context,
	cardIDs []uuid.UUID,
	status cardsDomain.CardStatus,
	now time.Time,
) (int64, error) {
	args := m.Called(ctx, cardIDs, status, now)
	return args.Get(0).(int64), args.Error(1)
}

// ListCardNumberCredentials mocks the ListCardNumberCredentials method of CardRepository.
func (m *MockCardRepository) ListCardNumberCredentials(
	ctx context.Context,
) ([]cardsDomain.CardNumberCredential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cardsDomain.CardNumberCredential), args.Error(1)
}

// CountNickname mocks the CountNickname method of CardRepository.
func (m *MockCardRepository) CountNickname(
	ctx context.Context,
	accountID, nickname string,
	excludeID uuid.UUID,
) (int64, error) {
	args := m.Called(ctx, accountID, nickname, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

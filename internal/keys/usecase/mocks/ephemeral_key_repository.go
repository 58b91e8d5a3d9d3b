// Package mocks provides mock implementations for testing key vault use cases.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
)

// MockEphemeralKeyRepository is a mock implementation of EphemeralKeyRepository for testing.
type MockEphemeralKeyRepository struct {
	mock.Mock
}

// Create mocks the Create method of EphemeralKeyRepository.
func (m *MockEphemeralKeyRepository) Create(ctx context.Context, key *keysDomain.EphemeralKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Get mocks the Get method of EphemeralKeyRepository.
func (m *MockEphemeralKeyRepository) Get(
	ctx context.Context,
	keyID uuid.UUID,
) (*keysDomain.EphemeralKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.EphemeralKey), args.Error(1)
}

// Consume mocks the Consume method of EphemeralKeyRepository.
func (m *MockEphemeralKeyRepository) Consume(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
	now time.Time,
) (*keysDomain.EphemeralKey, error) {
	args := m.Called(ctx, keyID, ownerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.EphemeralKey), args.Error(1)
}

// DeleteExpired mocks the DeleteExpired method of EphemeralKeyRepository.
func (m *MockEphemeralKeyRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

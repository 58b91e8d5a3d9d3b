// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
)

// MockKeyVaultUseCase is a mock implementation of KeyVaultUseCase for testing.
type MockKeyVaultUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method of KeyVaultUseCase.
func (m *MockKeyVaultUseCase) Issue(ctx context.Context, ownerID string) (*keysDomain.EphemeralKey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.EphemeralKey), args.Error(1)
}

// Claim mocks the Claim method of KeyVaultUseCase.
func (m *MockKeyVaultUseCase) Claim(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
) (*keysDomain.EphemeralKey, error) {
	args := m.Called(ctx, keyID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.EphemeralKey), args.Error(1)
}

// CleanExpired mocks the CleanExpired method of KeyVaultUseCase.
func (m *MockKeyVaultUseCase) CleanExpired(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

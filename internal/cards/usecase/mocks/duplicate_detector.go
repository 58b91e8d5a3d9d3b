package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDuplicateDetector is a mock implementation of DuplicateDetector for testing.
type MockDuplicateDetector struct {
	mock.Mock
}

// Exists mocks the Exists method of DuplicateDetector.
func (m *MockDuplicateDetector) Exists(
	ctx context.Context,
	candidate string,
	excludeID uuid.UUID,
) (bool, uuid.UUID, error) {
	args := m.Called(ctx, candidate, excludeID)
	return args.Bool(0), args.Get(1).(uuid.UUID), args.Error(2)
}

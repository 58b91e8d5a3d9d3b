// Package mocks provides mock implementations for testing envelope consumers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEnvelopeUseCase is a mock implementation of EnvelopeUseCase for testing.
type MockEnvelopeUseCase struct {
	mock.Mock
}

// Unwrap mocks the Unwrap method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Unwrap(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
	payloads ...string,
) ([]string, error) {
	callArgs := make([]any, 0, len(payloads)+3)
	callArgs = append(callArgs, ctx, keyID, ownerID)
	for _, payload := range payloads {
		callArgs = append(callArgs, payload)
	}

	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Wrap mocks the Wrap method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Wrap(
	ctx context.Context,
	ownerID string,
	plaintext []byte,
) (uuid.UUID, string, error) {
	args := m.Called(ctx, ownerID, plaintext)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

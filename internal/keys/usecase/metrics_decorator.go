package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
	"github.com/ticketops/cardvault/internal/metrics"
)

// keyVaultUseCaseWithMetrics decorates KeyVaultUseCase with metrics instrumentation.
type keyVaultUseCaseWithMetrics struct {
	next    KeyVaultUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyVaultUseCaseWithMetrics wraps a KeyVaultUseCase with metrics recording.
func NewKeyVaultUseCaseWithMetrics(useCase KeyVaultUseCase, m metrics.BusinessMetrics) KeyVaultUseCase {
	return &keyVaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for key issuance operations.
func (k *keyVaultUseCaseWithMetrics) Issue(
	ctx context.Context,
	ownerID string,
) (*keysDomain.EphemeralKey, error) {
	start := time.Now()
	key, err := k.next.Issue(ctx, ownerID)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_issue", status)
	k.metrics.RecordDuration(ctx, "keys", "key_issue", time.Since(start), status)

	return key, err
}

// Claim records metrics for key claim operations.
func (k *keyVaultUseCaseWithMetrics) Claim(
	ctx context.Context,
	keyID uuid.UUID,
	ownerID string,
) (*keysDomain.EphemeralKey, error) {
	start := time.Now()
	key, err := k.next.Claim(ctx, keyID, ownerID)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_claim", status)
	k.metrics.RecordDuration(ctx, "keys", "key_claim", time.Since(start), status)

	return key, err
}

// CleanExpired records metrics for expired key cleanup operations.
func (k *keyVaultUseCaseWithMetrics) CleanExpired(
	ctx context.Context,
	retention time.Duration,
) (int64, error) {
	start := time.Now()
	deleted, err := k.next.CleanExpired(ctx, retention)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_clean_expired", status)
	k.metrics.RecordDuration(ctx, "keys", "key_clean_expired", time.Since(start), status)

	return deleted, err
}

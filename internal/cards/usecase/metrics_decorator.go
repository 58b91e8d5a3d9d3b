package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	"github.com/ticketops/cardvault/internal/metrics"
)

// cardUseCaseWithMetrics decorates CardUseCase with metrics instrumentation.
type cardUseCaseWithMetrics struct {
	next    CardUseCase
	metrics metrics.BusinessMetrics
}

// NewCardUseCaseWithMetrics wraps a CardUseCase with metrics recording.
func NewCardUseCaseWithMetrics(useCase CardUseCase, m metrics.BusinessMetrics) CardUseCase {
	return &cardUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record captures the outcome and duration of a card operation.
func (c *cardUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "cards", operation, status)
	c.metrics.RecordDuration(ctx, "cards", operation, time.Since(start), status)
}

func (c *cardUseCaseWithMetrics) CreateEncrypted(
	ctx context.Context,
	ownerID string,
	keyID uuid.UUID,
	encryptedData string,
) (uuid.UUID, error) {
	start := time.Now()
	cardID, err := c.next.CreateEncrypted(ctx, ownerID, keyID, encryptedData)
	c.record(ctx, "card_create", start, err)
	return cardID, err
}

func (c *cardUseCaseWithMetrics) GetWrapped(
	ctx context.Context,
	cardID uuid.UUID,
	ownerID string,
) (*cardsDomain.WrappedCard, error) {
	start := time.Now()
	wrapped, err := c.next.GetWrapped(ctx, cardID, ownerID)
	c.record(ctx, "card_get", start, err)
	return wrapped, err
}

func (c *cardUseCaseWithMetrics) UpdateEncrypted(
	ctx context.Context,
	cardID uuid.UUID,
	ownerID string,
	keyID uuid.UUID,
	encryptedData string,
) (*cardsDomain.CreditCardRecord, error) {
	start := time.Now()
	card, err := c.next.UpdateEncrypted(ctx, cardID, ownerID, keyID, encryptedData)
	c.record(ctx, "card_update", start, err)
	return card, err
}

func (c *cardUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*cardsDomain.CreditCardRecord, error) {
	start := time.Now()
	cards, err := c.next.List(ctx, offset, limit)
	c.record(ctx, "card_list", start, err)
	return cards, err
}

func (c *cardUseCaseWithMetrics) UpdateStatus(
	ctx context.Context,
	cardIDs []uuid.UUID,
	status string,
) (int64, error) {
	start := time.Now()
	updated, err := c.next.UpdateStatus(ctx, cardIDs, status)
	c.record(ctx, "card_bulk_status", start, err)
	return updated, err
}

func (c *cardUseCaseWithMetrics) CheckCardNumberExists(
	ctx context.Context,
	cardNumber string,
) (bool, error) {
	start := time.Now()
	exists, err := c.next.CheckCardNumberExists(ctx, cardNumber)
	c.record(ctx, "card_check_number", start, err)
	return exists, err
}

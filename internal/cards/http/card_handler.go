// Package http provides HTTP handlers for credit card operations. Card data
// crosses the wire only in envelope-encrypted form; listings expose masked
// metadata only.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketops/cardvault/internal/cards/http/dto"
	cardsUseCase "github.com/ticketops/cardvault/internal/cards/usecase"
	"github.com/ticketops/cardvault/internal/httputil"
)

// CardHandler handles HTTP requests for credit card operations.
type CardHandler struct {
	cardUseCase cardsUseCase.CardUseCase
	logger      *slog.Logger
}

// NewCardHandler creates a new card handler with required dependencies.
func NewCardHandler(cardUseCase cardsUseCase.CardUseCase, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardUseCase: cardUseCase,
		logger:      logger,
	}
}

// CreateHandler stores a card from an envelope-encrypted payload.
// POST /v1/credit-cards/encrypted
// Returns 201 Created with the new card id.
func (h *CardHandler) CreateHandler(c *gin.Context) {
	var request dto.EncryptedCardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid JSON payload: %w", err), h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	keyID, err := uuid.Parse(request.EncryptedKeyID)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid encrypted_key_id: must be a UUID"), h.logger)
		return
	}

	cardID, err := h.cardUseCase.CreateEncrypted(
		c.Request.Context(),
		httputil.AccountID(c),
		keyID,
		request.EncryptedData,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CardCreatedResponse{CardID: cardID.String()})
}

// GetHandler returns a single card re-encrypted under a freshly issued
// single-use key.
// GET /v1/credit-cards/:card_id
func (h *CardHandler) GetHandler(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("card_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid card_id: must be a UUID"), h.logger)
		return
	}

	wrapped, err := h.cardUseCase.GetWrapped(c.Request.Context(), cardID, httputil.AccountID(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWrappedCardToResponse(wrapped))
}

// ListHandler returns a paginated masked listing of stored cards.
// GET /v1/credit-cards?offset=0&limit=50
func (h *CardHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	cards, err := h.cardUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardsToListResponse(cards, offset, limit))
}

// UpdateHandler applies an envelope-encrypted partial update to a card.
// PUT /v1/credit-cards/:card_id/encrypted
// Returns the masked summary of the updated card.
func (h *CardHandler) UpdateHandler(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("card_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid card_id: must be a UUID"), h.logger)
		return
	}

	var request dto.EncryptedCardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid JSON payload: %w", err), h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	keyID, err := uuid.Parse(request.EncryptedKeyID)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid encrypted_key_id: must be a UUID"), h.logger)
		return
	}

	card, err := h.cardUseCase.UpdateEncrypted(
		c.Request.Context(),
		cardID,
		httputil.AccountID(c),
		keyID,
		request.EncryptedData,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCardToSummaryResponse(card))
}

// BulkUpdateHandler changes the status of several cards at once.
// PATCH /v1/credit-cards/bulk-update
func (h *CardHandler) BulkUpdateHandler(c *gin.Context) {
	var request dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid JSON payload: %w", err), h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	cardIDs := make([]uuid.UUID, 0, len(request.CardIDs))
	for _, raw := range request.CardIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid card id %q: must be a UUID", raw), h.logger)
			return
		}
		cardIDs = append(cardIDs, id)
	}

	updated, err := h.cardUseCase.UpdateStatus(c.Request.Context(), cardIDs, request.Status)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.BulkUpdateResponse{UpdatedCount: updated})
}

// CheckCardNumberHandler reports whether a card number is already stored.
// POST /v1/credit-cards/check-card-number
// The response is existence only; the matching record is never identified.
func (h *CardHandler) CheckCardNumberHandler(c *gin.Context) {
	var request dto.CheckCardNumberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid JSON payload: %w", err), h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	exists, err := h.cardUseCase.CheckCardNumberExists(c.Request.Context(), request.CardNumber)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CheckCardNumberResponse{Exists: exists})
}

package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketops/cardvault/internal/cards/http/dto"
	cardsUseCase "github.com/ticketops/cardvault/internal/cards/usecase"
	"github.com/ticketops/cardvault/internal/httputil"
)

// IssuerHandler handles HTTP requests for card issuer operations.
type IssuerHandler struct {
	issuerUseCase cardsUseCase.IssuerUseCase
	logger        *slog.Logger
}

// NewIssuerHandler creates a new issuer handler with required dependencies.
func NewIssuerHandler(issuerUseCase cardsUseCase.IssuerUseCase, logger *slog.Logger) *IssuerHandler {
	return &IssuerHandler{
		issuerUseCase: issuerUseCase,
		logger:        logger,
	}
}

// CreateHandler registers a new card issuer.
// POST /v1/credit-card-issuers
// Returns 201 Created, or 409 Conflict when the label is taken.
func (h *IssuerHandler) CreateHandler(c *gin.Context) {
	var request dto.CreateIssuerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid JSON payload: %w", err), h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	issuer, err := h.issuerUseCase.Create(c.Request.Context(), request.Label)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIssuerToResponse(issuer))
}

// ListHandler returns all registered issuers ordered by label.
// GET /v1/credit-card-issuers
func (h *IssuerHandler) ListHandler(c *gin.Context) {
	issuers, err := h.issuerUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIssuersToListResponse(issuers))
}

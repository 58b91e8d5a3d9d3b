// Package http provides HTTP handlers for ephemeral encryption key operations.
// Keys are issued to clients for one-shot card data encryption and are
// consumed on read.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoDomain "github.com/ticketops/cardvault/internal/crypto/domain"
	"github.com/ticketops/cardvault/internal/httputil"
	"github.com/ticketops/cardvault/internal/keys/http/dto"
	keysUseCase "github.com/ticketops/cardvault/internal/keys/usecase"
)

// KeyHandler handles HTTP requests for ephemeral encryption key operations.
type KeyHandler struct {
	keyVaultUseCase keysUseCase.KeyVaultUseCase
	algorithm       string
	logger          *slog.Logger
}

// NewKeyHandler creates a new key handler with required dependencies.
// The algorithm name is echoed in responses so clients know how to
// encrypt their payloads.
func NewKeyHandler(
	keyVaultUseCase keysUseCase.KeyVaultUseCase,
	algorithm string,
	logger *slog.Logger,
) *KeyHandler {
	return &KeyHandler{
		keyVaultUseCase: keyVaultUseCase,
		algorithm:       algorithm,
		logger:          logger,
	}
}

// IssueHandler issues a new single-use encryption key for the caller.
// POST /v1/encryption-keys
// Returns 201 Created with the raw key material.
func (h *KeyHandler) IssueHandler(c *gin.Context) {
	accountID := httputil.AccountID(c)

	key, err := h.keyVaultUseCase.Issue(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// SECURITY: Zero raw material after mapping to response
	defer cryptoDomain.Zero(key.RawKey)

	response := dto.MapKeyToResponse(key, h.algorithm)
	c.JSON(http.StatusCreated, response)
}

// GetHandler claims a previously issued key and returns its material.
// GET /v1/encryption-keys/:key_id
// Reading a key consumes it. A key can be read exactly once and only by
// the account that issued it; later reads return 410 Gone.
func (h *KeyHandler) GetHandler(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("key_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid key_id: must be a UUID"), h.logger)
		return
	}

	key, err := h.keyVaultUseCase.Claim(c.Request.Context(), keyID, httputil.AccountID(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// SECURITY: Zero raw material after mapping to response
	defer cryptoDomain.Zero(key.RawKey)

	response := dto.MapKeyToResponse(key, h.algorithm)
	c.JSON(http.StatusOK, response)
}

package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cardsDomain "github.com/ticketops/cardvault/internal/cards/domain"
	"github.com/ticketops/cardvault/internal/cards/http/dto"
	"github.com/ticketops/cardvault/internal/cards/http/mocks"
)

func setupIssuerHandler(t *testing.T) (*IssuerHandler, *mocks.MockIssuerUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockIssuerUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewIssuerHandler(mockUseCase, logger), mockUseCase
}

func TestIssuerHandler_CreateHandler(t *testing.T) {
	t.Run("creates an issuer", func(t *testing.T) {
		handler, mockUseCase := setupIssuerHandler(t)

		issuer := &cardsDomain.Issuer{
			ID:        uuid.Must(uuid.NewV7()),
			Label:     "Chase",
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("Create", mock.Anything, "Chase").Return(issuer, nil).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-card-issuers", dto.CreateIssuerRequest{Label: "Chase"})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.IssuerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, issuer.ID.String(), response.ID)
		assert.Equal(t, "Chase", response.Label)
	})

	t.Run("empty label returns 422", func(t *testing.T) {
		handler, _ := setupIssuerHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-card-issuers", dto.CreateIssuerRequest{})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("duplicate label returns 409", func(t *testing.T) {
		handler, mockUseCase := setupIssuerHandler(t)

		mockUseCase.On("Create", mock.Anything, "Chase").
			Return(nil, cardsDomain.ErrIssuerLabelTaken).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-card-issuers", dto.CreateIssuerRequest{Label: "Chase"})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestIssuerHandler_ListHandler(t *testing.T) {
	t.Run("lists issuers", func(t *testing.T) {
		handler, mockUseCase := setupIssuerHandler(t)

		issuers := []*cardsDomain.Issuer{
			{ID: uuid.Must(uuid.NewV7()), Label: "Amex", CreatedAt: time.Now().UTC()},
			{ID: uuid.Must(uuid.NewV7()), Label: "Chase", CreatedAt: time.Now().UTC()},
		}

		mockUseCase.On("List", mock.Anything).Return(issuers, nil).Once()

		c, w := createTestContext(t, http.MethodGet, "/v1/credit-card-issuers", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.IssuerListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 2)
		assert.Equal(t, "Amex", response.Data[0].Label)
	})

	t.Run("use case failure returns 500", func(t *testing.T) {
		handler, mockUseCase := setupIssuerHandler(t)

		mockUseCase.On("List", mock.Anything).Return(nil, assert.AnError).Once()

		c, w := createTestContext(t, http.MethodGet, "/v1/credit-card-issuers", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

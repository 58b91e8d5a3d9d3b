package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
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
	"github.com/ticketops/cardvault/internal/httputil"
)

// setupCardHandler creates a test handler with mocked dependencies.
func setupCardHandler(t *testing.T) (*CardHandler, *mocks.MockCardUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockCardUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCardHandler(mockUseCase, logger), mockUseCase
}

// createTestContext builds a gin context with the account set by the operator middleware.
func createTestContext(t *testing.T, method, url string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	c.Request = httptest.NewRequest(method, url, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(httputil.AccountIDKey, "account-123")
	return c, w
}

func encryptedPayload() string {
	return base64.StdEncoding.EncodeToString([]byte("opaque envelope bytes"))
}

func TestCardHandler_CreateHandler(t *testing.T) {
	t.Run("creates a card", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		keyID := uuid.Must(uuid.NewV7())
		cardID := uuid.Must(uuid.NewV7())
		payload := encryptedPayload()

		mockUseCase.On("CreateEncrypted", mock.Anything, "account-123", keyID, payload).
			Return(cardID, nil).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-cards/encrypted", dto.EncryptedCardRequest{
			EncryptedKeyID: keyID.String(),
			EncryptedData:  payload,
		})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CardCreatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, cardID.String(), response.CardID)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("missing fields return 422", func(t *testing.T) {
		handler, _ := setupCardHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-cards/encrypted", dto.EncryptedCardRequest{})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("non-base64 data returns 422", func(t *testing.T) {
		handler, _ := setupCardHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-cards/encrypted", dto.EncryptedCardRequest{
			EncryptedKeyID: uuid.Must(uuid.NewV7()).String(),
			EncryptedData:  "not base64!!!",
		})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid key surfaces as 422", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		keyID := uuid.Must(uuid.NewV7())
		payload := encryptedPayload()

		mockUseCase.On("CreateEncrypted", mock.Anything, "account-123", keyID, payload).
			Return(uuid.Nil, cardsDomain.ErrEncryptionKeyInvalid).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-cards/encrypted", dto.EncryptedCardRequest{
			EncryptedKeyID: keyID.String(),
			EncryptedData:  payload,
		})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("duplicate card returns 409 with the existing id", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		keyID := uuid.Must(uuid.NewV7())
		existingID := uuid.Must(uuid.NewV7())
		payload := encryptedPayload()

		mockUseCase.On("CreateEncrypted", mock.Anything, "account-123", keyID, payload).
			Return(uuid.Nil, &cardsDomain.DuplicateCardError{ExistingID: existingID}).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-cards/encrypted", dto.EncryptedCardRequest{
			EncryptedKeyID: keyID.String(),
			EncryptedData:  payload,
		})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), existingID.String())
	})
}

func TestCardHandler_GetHandler(t *testing.T) {
	t.Run("returns the wrapped card", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		cardID := uuid.Must(uuid.NewV7())
		freshKeyID := uuid.Must(uuid.NewV7())

		mockUseCase.On("GetWrapped", mock.Anything, cardID, "account-123").
			Return(&cardsDomain.WrappedCard{
				EncryptedKeyID: freshKeyID,
				EncryptedData:  "wrapped-data",
			}, nil).Once()

		c, w := createTestContext(t, http.MethodGet, "/v1/credit-cards/"+cardID.String(), nil)
		c.Params = gin.Params{{Key: "card_id", Value: cardID.String()}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.WrappedCardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, freshKeyID.String(), response.EncryptedKeyID)
		assert.Equal(t, "wrapped-data", response.EncryptedData)
	})

	t.Run("invalid card id returns 400", func(t *testing.T) {
		handler, _ := setupCardHandler(t)

		c, w := createTestContext(t, http.MethodGet, "/v1/credit-cards/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "card_id", Value: "not-a-uuid"}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing card returns 404", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		cardID := uuid.Must(uuid.NewV7())
		mockUseCase.On("GetWrapped", mock.Anything, cardID, "account-123").
			Return(nil, cardsDomain.ErrCardNotFound).Once()

		c, w := createTestContext(t, http.MethodGet, "/v1/credit-cards/"+cardID.String(), nil)
		c.Params = gin.Params{{Key: "card_id", Value: cardID.String()}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCardHandler_ListHandler(t *testing.T) {
	t.Run("returns masked summaries", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		now := time.Now().UTC()
		nickname := "main card"
		cards := []*cardsDomain.CreditCardRecord{
			{
				ID:               uuid.Must(uuid.NewV7()),
				CardType:         "Visa",
				MaskedCardNumber: "************1111",
				ExpirationMonth:  3,
				ExpirationYear:   2031,
				Status:           cardsDomain.CardStatusActive,
				Nickname:         &nickname,
				CreatedAt:        now,
				UpdatedAt:        now,
			},
		}

		mockUseCase.On("List", mock.Anything, 0, 50).Return(cards, nil).Once()

		c, w := createTestContext(t, http.MethodGet, "/v1/credit-cards", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.CardListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "************1111", response.Data[0].MaskedCardNumber)
		assert.Equal(t, "03/31", response.Data[0].Expires)
		assert.Equal(t, 50, response.Limit)
	})

	t.Run("invalid limit returns 400", func(t *testing.T) {
		handler, _ := setupCardHandler(t)

		c, w := createTestContext(t, http.MethodGet, "/v1/credit-cards?limit=1000", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCardHandler_UpdateHandler(t *testing.T) {
	t.Run("updates a card", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		cardID := uuid.Must(uuid.NewV7())
		keyID := uuid.Must(uuid.NewV7())
		payload := encryptedPayload()

		updated := &cardsDomain.CreditCardRecord{
			ID:               cardID,
			CardType:         "Mastercard",
			MaskedCardNumber: "************4444",
			ExpirationMonth:  11,
			ExpirationYear:   2029,
			Status:           cardsDomain.CardStatusActive,
		}

		mockUseCase.On("UpdateEncrypted", mock.Anything, cardID, "account-123", keyID, payload).
			Return(updated, nil).Once()

		c, w := createTestContext(t, http.MethodPut, "/v1/credit-cards/"+cardID.String()+"/encrypted", dto.EncryptedCardRequest{
			EncryptedKeyID: keyID.String(),
			EncryptedData:  payload,
		})
		c.Params = gin.Params{{Key: "card_id", Value: cardID.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.CardSummaryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, cardID.String(), response.ID)
		assert.Equal(t, "************4444", response.MaskedCardNumber)
		assert.Equal(t, "11/29", response.Expires)
	})

	t.Run("nickname conflict returns 409", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		cardID := uuid.Must(uuid.NewV7())
		keyID := uuid.Must(uuid.NewV7())
		payload := encryptedPayload()

		mockUseCase.On("UpdateEncrypted", mock.Anything, cardID, "account-123", keyID, payload).
			Return(nil, cardsDomain.ErrNicknameTaken).Once()

		c, w := createTestContext(t, http.MethodPut, "/v1/credit-cards/"+cardID.String()+"/encrypted", dto.EncryptedCardRequest{
			EncryptedKeyID: keyID.String(),
			EncryptedData:  payload,
		})
		c.Params = gin.Params{{Key: "card_id", Value: cardID.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCardHandler_BulkUpdateHandler(t *testing.T) {
	t.Run("updates statuses", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		ids := []uuid.UUID{uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())}

		mockUseCase.On("UpdateStatus", mock.Anything, ids, "inactive").
			Return(int64(2), nil).Once()

		c, w := createTestContext(t, http.MethodPatch, "/v1/credit-cards/bulk-update", dto.BulkUpdateRequest{
			CardIDs: []string{ids[0].String(), ids[1].String()},
			Status:  "inactive",
		})
		handler.BulkUpdateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.BulkUpdateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(2), response.UpdatedCount)
	})

	t.Run("unknown status returns 422", func(t *testing.T) {
		handler, _ := setupCardHandler(t)

		c, w := createTestContext(t, http.MethodPatch, "/v1/credit-cards/bulk-update", dto.BulkUpdateRequest{
			CardIDs: []string{uuid.Must(uuid.NewV7()).String()},
			Status:  "archived",
		})
		handler.BulkUpdateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("empty id list returns 422", func(t *testing.T) {
		handler, _ := setupCardHandler(t)

		c, w := createTestContext(t, http.MethodPatch, "/v1/credit-cards/bulk-update", dto.BulkUpdateRequest{
			Status: "active",
		})
		handler.BulkUpdateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestCardHandler_CheckCardNumberHandler(t *testing.T) {
	t.Run("reports existence", func(t *testing.T) {
		handler, mockUseCase := setupCardHandler(t)

		mockUseCase.On("CheckCardNumberExists", mock.Anything, "4111111111111111").
			Return(true, nil).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-cards/check-card-number", dto.CheckCardNumberRequest{
			CardNumber: "4111111111111111",
		})
		handler.CheckCardNumberHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.CheckCardNumberResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Exists)
	})

	t.Run("malformed number returns 422", func(t *testing.T) {
		handler, _ := setupCardHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/credit-cards/check-card-number", dto.CheckCardNumberRequest{
			CardNumber: "41-11",
		})
		handler.CheckCardNumberHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cardsHTTP "github.com/ticketops/cardvault/internal/cards/http"
	cardsMocks "github.com/ticketops/cardvault/internal/cards/http/mocks"
	"github.com/ticketops/cardvault/internal/config"
	"github.com/ticketops/cardvault/internal/httputil"
	keysDomain "github.com/ticketops/cardvault/internal/keys/domain"
	keysHTTP "github.com/ticketops/cardvault/internal/keys/http"
	keysMocks "github.com/ticketops/cardvault/internal/keys/http/mocks"
	"github.com/ticketops/cardvault/internal/metrics"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServerMocks struct {
	keyVault *keysMocks.MockKeyVaultUseCase
	cards    *cardsMocks.MockCardUseCase
	issuers  *cardsMocks.MockIssuerUseCase
}

// createTestServer wires a server around mocked use cases.
func createTestServer(t *testing.T, mutate func(cfg *config.Config)) (*Server, *testServerMocks) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := &testServerMocks{
		keyVault: &keysMocks.MockKeyVaultUseCase{},
		cards:    &cardsMocks.MockCardUseCase{},
		issuers:  &cardsMocks.MockIssuerUseCase{},
	}

	cfg := &config.Config{
		ServerHost:              "localhost",
		ServerPort:              8080,
		LogLevel:                "info",
		RateLimitEnabled:        false,
		RateLimitRequestsPerSec: 10,
		RateLimitBurst:          20,
	}
	if mutate != nil {
		mutate(cfg)
	}

	deps := ServerDeps{
		KeyHandler:    keysHTTP.NewKeyHandler(m.keyVault, "aes-gcm", logger),
		CardHandler:   cardsHTTP.NewCardHandler(m.cards, logger),
		IssuerHandler: cardsHTTP.NewIssuerHandler(m.issuers, logger),
	}

	return NewServer(cfg, deps, logger), m
}

func TestServer_HealthEndpoints(t *testing.T) {
	server, _ := createTestServer(t, nil)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		server.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
	})

	t.Run("ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		server.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("health needs no operator header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		server.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOperatorMiddleware(t *testing.T) {
	t.Run("rejects requests without an operator id", func(t *testing.T) {
		server, _ := createTestServer(t, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/credit-cards", nil)
		server.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("passes the operator id to handlers", func(t *testing.T) {
		server, m := createTestServer(t, nil)

		m.cards.On("List", mock.Anything, 0, 50).Return(nil, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/credit-cards", nil)
		req.Header.Set("X-Operator-Id", "operator-42")
		server.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("key issue is bound to the operator", func(t *testing.T) {
		server, m := createTestServer(t, nil)

		now := time.Now().UTC()
		key := &keysDomain.EphemeralKey{
			ID:        uuid.Must(uuid.NewV7()),
			OwnerID:   "operator-42",
			RawKey:    make([]byte, 32),
			CreatedAt: now,
			ExpiresAt: now.Add(keysDomain.DefaultTTL),
		}
		m.keyVault.On("Issue", mock.Anything, "operator-42").Return(key, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/encryption-keys", nil)
		req.Header.Set("X-Operator-Id", "operator-42")
		server.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		m.keyVault.AssertExpectations(t)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("throttles an operator past its burst", func(t *testing.T) {
		server, m := createTestServer(t, func(cfg *config.Config) {
			cfg.RateLimitEnabled = true
			cfg.RateLimitRequestsPerSec = 0.001
			cfg.RateLimitBurst = 2
		})

		m.cards.On("List", mock.Anything, 0, 50).Return(nil, nil)

		var lastCode int
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/credit-cards", nil)
			req.Header.Set("X-Operator-Id", "operator-42")
			server.Engine().ServeHTTP(w, req)
			lastCode = w.Code
		}

		assert.Equal(t, http.StatusTooManyRequests, lastCode)
	})

	t.Run("operators are throttled independently", func(t *testing.T) {
		server, m := createTestServer(t, func(cfg *config.Config) {
			cfg.RateLimitEnabled = true
			cfg.RateLimitRequestsPerSec = 0.001
			cfg.RateLimitBurst = 1
		})

		m.cards.On("List", mock.Anything, 0, 50).Return(nil, nil)

		first := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/credit-cards", nil)
		req.Header.Set("X-Operator-Id", "operator-a")
		server.Engine().ServeHTTP(first, req)
		require.Equal(t, http.StatusOK, first.Code)

		// operator-a is out of tokens, operator-b is not.
		exhausted := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/v1/credit-cards", nil)
		req.Header.Set("X-Operator-Id", "operator-a")
		server.Engine().ServeHTTP(exhausted, req)
		assert.Equal(t, http.StatusTooManyRequests, exhausted.Code)

		other := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/v1/credit-cards", nil)
		req.Header.Set("X-Operator-Id", "operator-b")
		server.Engine().ServeHTTP(other, req)
		assert.Equal(t, http.StatusOK, other.Code)
	})
}

func TestRequestIDHeaderPresent(t *testing.T) {
	server, _ := createTestServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestOperatorMiddleware_SetsAccountKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(OperatorMiddleware(logger))
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": httputil.AccountID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Operator-Id", "operator-7")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "operator-7", response["operator"])
}

func TestMetricsServer_Endpoints(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, logger, provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestServer_NoMetricsEndpoint(t *testing.T) {
	server, _ := createTestServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("cardvault_test")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "cardvault_test"))
	router.GET("/v1/credit-cards/:card_id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/credit-cards/abc", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	metricsRec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(metricsRec, httptest.NewRequest("GET", "/metrics", nil))

	output := metricsRec.Body.String()
	assert.Regexp(t, `cardvault_test_http_requests_total\{[^}]*path="/v1/credit-cards/:card_id"[^}]*\} 1`, output)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "unknown", sanitizePath(""))
	assert.Equal(t, "/v1/encryption-keys", sanitizePath("/v1/encryption-keys"))
}

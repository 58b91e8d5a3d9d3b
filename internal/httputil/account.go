package httputil

import (
	"github.com/gin-gonic/gin"
)

// AccountIDKey is the gin context key under which the operator middleware
// stores the authenticated account identifier.
const AccountIDKey = "account_id"

// AccountID returns the account identifier for the current request, or an
// empty string when the operator middleware did not run.
func AccountID(c *gin.Context) string {
	return c.GetString(AccountIDKey)
}

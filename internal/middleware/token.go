package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenRequired rejects requests that do not carry "Authorization: Bearer
// <token>". An empty token leaves the API open.
func TokenRequired(token string) gin.HandlerFunc {
	expected := digest(token)

	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		presented, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || !hmac.Equal(digest(presented), expected) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API token"})
			return
		}

		c.Next()
	}
}

// bearerToken extracts the credentials of a Bearer authorization header
func bearerToken(header string) (string, bool) {
	scheme, credentials, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	return credentials, credentials != ""
}

// digest hashes a token so comparisons take the same time whatever its length
func digest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

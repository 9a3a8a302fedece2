package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contactbook/internal/repositories"
	"contactbook/internal/services"
)

// CurrentUserKey is where AuthMiddleware stores the resolved account.
const CurrentUserKey = "current_user"

// AuthMiddleware resolves the bearer token to an account and aborts with a
// generic 401 otherwise. Signature, expiry and scope failures all produce the
// same response so the client learns nothing about which check failed.
func AuthMiddleware(tokens *services.TokenService, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenStr, ok := BearerToken(c)
		if !ok {
			unauthorized(c)
			return
		}

		subject, err := tokens.Verify(tokenStr, services.ScopeAccess)
		if err != nil {
			unauthorized(c)
			return
		}

		user, err := users.GetByUsername(subject)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header. The refresh
// endpoint parses its credential the same way, so the rules live here once.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		return "", false
	}
	return tokenStr, true
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
}

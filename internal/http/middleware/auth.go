package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"livefeed/internal/http/dto"
	"livefeed/internal/http/resp"
)

const userIDKey = "user_id"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token. The token may
// also come from the "token" query parameter, which EventSource clients need
// since they cannot set headers.
func RequireAuth(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortReauth(c, "missing token")
			return
		}
		userID, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abortReauth(c, "invalid or expired token")
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}

func abortReauth(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Code: resp.CodeReauthRequired, Message: msg})
}

package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/task-tracker-api/internal/auth"
	"github.com/tasktracker/task-tracker-api/internal/constants"
	apierrors "github.com/tasktracker/task-tracker-api/internal/errors"
)

// TokenVerifier resolves a bearer token to the user ID it was issued for.
type TokenVerifier interface {
	Verify(token string) (uint64, error)
}

// RequireAuth checks the Authorization header for a valid bearer token and
// stores the user ID it carries in the context.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c)
		if err != nil {
			RespondTokenError(c, err)
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			RespondTokenError(c, err)
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It fails with auth.ErrTokenMissing when there is no header and
// auth.ErrTokenMalformed when the header uses another scheme.
func BearerToken(c *gin.Context) (string, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", auth.ErrTokenMissing
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", auth.ErrTokenMalformed
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrTokenMissing
	}
	return token, nil
}

// RespondTokenError sends a 401 whose code names the verification failure.
func RespondTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenMissing, "Authentication token is missing")
	case errors.Is(err, auth.ErrTokenExpired):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenExpired, "Authentication token has expired")
	case errors.Is(err, auth.ErrTokenInvalidSignature):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenInvalidSignature, "Authentication token signature is invalid")
	default:
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenMalformed, "Authentication token is malformed")
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	v, ok := userID.(uint64)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

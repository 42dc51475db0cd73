package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rozgar/jobportal/internal/models"
	"github.com/rozgar/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserLookup loads the account behind a token subject.
type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
		Code:    utils.CodeUnauthorized,
		Message: msg,
	})
}

// JWTAuth verifies the bearer token, reloads the account it was issued for
// and sets "user_id" and "role" on the context. Blocked accounts get 403 and
// deleted ones 401, whatever the token's remaining lifetime.
func JWTAuth(secret string, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "JWT_SECRET is not set",
			})
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(c, "missing bearer token")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if raw == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		claims, err := utils.ParseToken(secret, raw)
		if err != nil {
			_ = c.Error(err)
			unauthorized(c, "invalid token")
			return
		}
		if claims.Role == "" {
			unauthorized(c, "token has no role")
			return
		}

		uid, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			unauthorized(c, "invalid token subject")
			return
		}
		u, err := users.FindByID(c.Request.Context(), uid)
		if errors.Is(err, utils.ErrNotFound) {
			unauthorized(c, "account no longer exists")
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "failed to load account",
			})
			return
		}
		if u.IsBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "Your account has been blocked",
			})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}

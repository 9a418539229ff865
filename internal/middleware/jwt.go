package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/slutstation/slutstation-web/internal/models"
	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
	"github.com/slutstation/slutstation-web/pkg/response"
)

// ContextAdminKey is the gin context key storing admin JWT claims.
const ContextAdminKey = "currentAdmin"

type tokenValidator interface {
	ValidateToken(token string) (*models.AdminClaims, error)
}

// AdminJWT protects routes by requiring a valid admin bearer token.
func AdminJWT(validator tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAdminKey, claims)
		c.Next()
	}
}

// AdminFromContext returns the claims stored by AdminJWT.
func AdminFromContext(c *gin.Context) *models.AdminClaims {
	value, exists := c.Get(ContextAdminKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.AdminClaims)
	if !ok {
		return nil
	}
	return claims
}

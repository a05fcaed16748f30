package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/auth"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/gin-gonic/gin"
)

type MaintenanceChecker interface {
	MaintenanceMode(ctx context.Context) (bool, error)
}

// maintenanceExempt paths stay reachable so admins can sign in.
var maintenanceExempt = []string{"/v1/ping", "/v1/auth/"}

// MaintenanceMiddleware answers 503 to everyone except admin sessions while
// the maintenance_mode setting is on. A failed lookup lets traffic through.
func MaintenanceMiddleware(settings MaintenanceChecker, tokens *auth.TokenIssuer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range maintenanceExempt {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		// 1. --- Check the setting ---
		on, err := settings.MaintenanceMode(c.Request.Context())
		if err != nil {
			logger.Error("maintenance check failed", "error", err)
			c.Next()
			return
		}
		if !on {
			c.Next()
			return
		}

		// 2. --- Admins pass ---
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if claims, err := tokens.ValidateToken(tokenString); err == nil && claims.Role.AtLeast(models.RoleAdmin) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": "The store is currently in maintenance mode. Please try again later.",
		})
	}
}

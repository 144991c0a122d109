package panel

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"canal-panel/internal/stories/dashboard"
)

// RequireAuth rejects requests while no operator is logged in.
func RequireAuth(d Dashboard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !d.Session().Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": dashboard.ErrNotAuthenticated.Error()})
			return
		}
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(d Dashboard, role dashboard.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Session().Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": dashboard.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "Panel request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

package httpgin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kirinyoku/tourdash/internal/domain"
)

const (
	headerClientID     = "X-Client-ID"
	headerAdminSession = "X-Admin-Session"
	cookieAdminSession = "admin_session"
	adminLoginPath     = "/adminlogin"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set("request_id", reqID)

		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Requested-With",
			"X-Request-ID",
			headerClientID,
			headerAdminSession,
			"Idempotency-Key",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"ETag",
			"Cache-Control",
			"Idempotency-Key",
			"Retry-After",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(cfg)
}

func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		reqID, _ := c.Get("request_id")

		attrs := []any{
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", c.Request.UserAgent()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", latency),
			slog.Int("bytes_out", c.Writer.Size()),
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
			logger.Error("http", slog.Group("http", attrs...))
		} else {
			logger.Info("http", slog.Group("http", attrs...))
		}
	}
}

// clientID identifies the browser that owns location and preference
// records. Callers without an X-Client-ID header are keyed by IP.
func clientID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerClientID)); id != "" {
		return id
	}
	return c.ClientIP()
}

func adminSessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerAdminSession)); id != "" {
		return id
	}
	if id, err := c.Cookie(cookieAdminSession); err == nil {
		return id
	}
	return ""
}

// SessionChecker validates an admin session id.
type SessionChecker interface {
	Session(ctx context.Context, id string) (domain.AdminSession, bool)
}

// AdminGuard rejects requests without a live admin session and points the
// client back to the login page.
func AdminGuard(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := adminSessionID(c)
		if _, ok := sessions.Session(c.Request.Context(), id); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, SessionExpiredResponse{
				Error:    "session expired",
				Redirect: adminLoginPath,
			})
			return
		}

		c.Next()
	}
}

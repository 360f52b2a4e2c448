package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/gin-gonic/gin"
)

const claimsCtxKey = "claims"

func (h *Handler) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		abort(c, newUnauthorizedError("authorization header required"))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		abort(c, newUnauthorizedError("invalid authorization header"))
		return
	}

	claims, err := h.tokens.Verify(parts[1])
	if err != nil {
		h.log.DebugContext(c.Request.Context(), "rejected session token", "error", err)
		abort(c, newUnauthorizedError("invalid or expired token"))
		return
	}

	c.Set(claimsCtxKey, claims)
	c.Next()
}

// RequireRole lets through sessions whose role is one of roles.
func (h *Handler) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := sessionClaims(c)
		if claims == nil {
			abort(c, newUnauthorizedError("authentication required"))
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		abort(c, newForbiddenError("insufficient role"))
	}
}

// RequireCrossDepartment lets through roles that see every department.
func (h *Handler) RequireCrossDepartment(c *gin.Context) {
	claims := sessionClaims(c)
	if claims == nil {
		abort(c, newUnauthorizedError("authentication required"))
		return
	}

	if !h.isCrossDepartment(claims.Role) {
		abort(c, newForbiddenError("insufficient role"))
		return
	}

	c.Next()
}

func sessionClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get(claimsCtxKey)
	if !ok {
		return nil
	}

	claims, _ := value.(*auth.Claims)
	return claims
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}

		switch {
		case status >= http.StatusInternalServerError:
			h.log.ErrorContext(c.Request.Context(), "HTTP request", attrs...)
		case status >= http.StatusBadRequest:
			h.log.WarnContext(c.Request.Context(), "HTTP request", attrs...)
		default:
			h.log.InfoContext(c.Request.Context(), "HTTP request", attrs...)
		}
	}
}

func (h *Handler) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		h.metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		h.metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

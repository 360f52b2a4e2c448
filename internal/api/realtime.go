package api

import (
	"net/http"

	"github.com/UnknownOlympus/hestia/internal/realtime"
	"github.com/gin-gonic/gin"
)

// HandleRealtime authenticates with the token query parameter, since browsers
// cannot set headers on websocket handshakes.
func (h *Handler) HandleRealtime(c *gin.Context) {
	claims, err := h.tokens.Verify(c.Query("token"))
	if err != nil {
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return
	}

	h.realtime.ServeWS(c.Writer, c.Request, realtime.Identity{
		Username:   claims.Username,
		Role:       claims.Role,
		Department: claims.Department,
	})
}

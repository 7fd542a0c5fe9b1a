package api

import (
	"github.com/gin-gonic/gin"
)

// Realtime upgrades the connection and streams events until the client
// disconnects.
func (h *Handler) Realtime(c *gin.Context) {
	u := currentUser(c)
	if err := h.hub.Serve(c.Writer, c.Request, u.ID); err != nil {
		h.log.Warn(c.Request.Context(), "websocket upgrade failed", "user_id", u.ID, "error", err)
	}
}

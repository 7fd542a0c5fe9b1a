package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/common"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
	"github.com/dmitrijs2005/reverseauction/internal/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userKey = "user"

// RequestLogger logs every request with its status and latency. The caller's
// X-Request-ID, or a fresh one, is echoed back and attached to the request
// context for downstream logging.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, id)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader(common.AuthorizationHeaderName))
	if len(h) < len(common.BearerPrefix) || !strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(h[len(common.BearerPrefix):])
}

// authenticate resolves the bearer token. required controls whether a
// request without one is rejected or passed through anonymously.
func (h *Handler) authenticate(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerToken(c)
		if tok == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
				return
			}
			c.Next()
			return
		}
		u, err := h.users.Authenticate(c.Request.Context(), tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": shared.Message(err)})
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

func adminOnly(c *gin.Context) {
	if !currentUser(c).IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin only"})
		return
	}
	c.Next()
}

// currentUser is the authenticated caller, or the zero User.
func currentUser(c *gin.Context) models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(models.User); ok {
			return u
		}
	}
	return models.User{}
}

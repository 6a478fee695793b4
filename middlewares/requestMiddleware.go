package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmdatafocus/pos_backend/config"
	"github.com/mmdatafocus/pos_backend/utils"
)

const (
	CorrelationIdHeader = "X-Correlation-Id"
	SessionIdHeader     = "X-Session-Id"
)

// CorrelationMiddleware generates a correlation id once per request and attaches it to the context.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(CorrelationIdHeader)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header(CorrelationIdHeader, cid)
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	}
}

// SessionMiddleware ties the request to a dashboard session. Clients without one get
// a fresh id back in the response header and should send it from then on.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionIdHeader)
		if sid == "" {
			sid = uuid.NewString()
		}
		c.Header(SessionIdHeader, sid)

		// lets other instances see the session is alive
		if err := config.SetRedisObject("dashboard:session:"+sid, time.Now(), config.SessionTTL()); err != nil {
			config.LogError(config.GetLogger(), "middlewares", "SessionMiddleware", "touch session", sid, err)
		}

		c.Request = c.Request.WithContext(utils.SetSessionIdInContext(c.Request.Context(), sid))
		c.Next()
	}
}

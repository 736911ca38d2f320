package middleware

import (
	"github.com/gin-gonic/gin"
)

const CtxRealIPKey = "real_ip"

// ForwardedIPHeaders are consulted, in order, when the direct peer is a
// trusted proxy.
var ForwardedIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// TrustProxies configures how the engine resolves c.ClientIP(). Forwarded
// headers are only read when the connecting peer is in trusted (IPs or
// CIDRs); an empty list means the TCP peer address is always used.
func TrustProxies(engine *gin.Engine, trusted []string) error {
	engine.ForwardedByClientIP = true
	engine.RemoteIPHeaders = ForwardedIPHeaders
	if len(trusted) == 0 {
		trusted = nil
	}
	return engine.SetTrustedProxies(trusted)
}

// RealIP stores the client IP in the Gin context under CtxRealIPKey.
// Resolution follows the engine's trusted proxies, see TrustProxies.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return c.RemoteIP()
}

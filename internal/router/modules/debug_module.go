package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

// DebugModule exposes expvar counters, including the registration counters.
type DebugModule struct {
	Limiter gin.HandlerFunc
}

func NewDebugModule(limiter gin.HandlerFunc) *DebugModule { return &DebugModule{Limiter: limiter} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if m.Limiter != nil {
		rg.GET("/debug/vars", m.Limiter, gin.WrapH(expvar.Handler()))
		return
	}
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}

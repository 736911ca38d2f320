package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
)

// Module wires the registration handlers.
// Public: GET /, POST /register (optionally rate limited)
type Module struct {
	Handler         *handlers.UserHandler
	RegisterLimiter gin.HandlerFunc
}

func New(h *handlers.UserHandler, registerLimiter gin.HandlerFunc) *Module {
	return &Module{Handler: h, RegisterLimiter: registerLimiter}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Index)

	chain := []gin.HandlerFunc{}
	if m.RegisterLimiter != nil {
		chain = append(chain, m.RegisterLimiter)
	}
	chain = append(chain, m.Handler.Register)
	rg.POST("/register", chain...)
}

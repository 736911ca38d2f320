package router

import "github.com/gin-gonic/gin"

// Module is a feature that mounts its own routes. Modules are added to a
// Registry and registered in insertion order.
type Module interface {
	Register(rg *gin.RouterGroup)
}

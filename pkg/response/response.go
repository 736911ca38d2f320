package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the only error shape clients ever see.
type ErrorBody struct {
	Error string `json:"error"`
}

// Success writes data as the JSON body.
func Success[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Error writes {"error": message} and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

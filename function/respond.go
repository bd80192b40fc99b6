package function

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var messages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusServiceUnavailable:  "service unavailable",
}

// RespondWithError writes the standard error body and aborts the chain.
func RespondWithError(code int, c *gin.Context) {
	message, ok := messages[code]
	if !ok {
		message = http.StatusText(code)
	}
	c.AbortWithStatusJSON(code, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}

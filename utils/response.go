package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/princinho/vidstream/apperror"
)

// Respond writes the success envelope {status, data, message}.
func Respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"data":    data,
		"message": message,
	})
}

// RespondError writes the failure envelope {status, message, errors} from a
// typed error, defaulting to 500 for anything outside the taxonomy.
func RespondError(c *gin.Context, err error) {
	status := apperror.StatusOf(err)
	c.JSON(status, gin.H{
		"status":  status,
		"message": apperror.MessageOf(err),
		"errors":  []string{},
	})
}

// AbortError is RespondError for middleware, stopping the handler chain.
func AbortError(c *gin.Context, err error) {
	status := apperror.StatusOf(err)
	c.AbortWithStatusJSON(status, gin.H{
		"status":  status,
		"message": apperror.MessageOf(err),
		"errors":  []string{},
	})
}

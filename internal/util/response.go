package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error writes the flat {"error": msg} body used by operation and user endpoints.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"error": msg})
}

// Fail writes the envelope used by budget endpoints, with optional
// field-level errors.
func Fail(c *gin.Context, httpStatus int, msg string, errors gin.H) {
	body := gin.H{
		"success": false,
		"message": msg,
	}
	if len(errors) > 0 {
		body["errors"] = errors
	}
	c.JSON(httpStatus, body)
}

// ServerError hides internal detail behind a generic 500 message.
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

package response

import (
	"github.com/gin-gonic/gin"
)

// JSON writes the standard response envelope
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = err.Error()
	}
	responseData := gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage,
		"status":  status,
	}
	c.JSON(status, responseData)
}

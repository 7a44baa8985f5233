package utils

import "github.com/gin-gonic/gin"

// Envelope is the uniform success response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ListResult pairs page data with its pagination meta.
type ListResult struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data"`
}

// SendResponse writes the success envelope.
func SendResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

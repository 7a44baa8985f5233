package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelbuddy-server/externals"
	"travelbuddy-server/utils"
)

type contactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SubmitContact forwards a contact-form submission to the operators'
// inbox.
func (h *Handler) SubmitContact(c *gin.Context) {
	var input contactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("name, email, subject and message are required"))
		return
	}

	if err := externals.SendContactMail(input.Name, input.Email, input.Subject, input.Message); err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "message sent successfully", nil)
}

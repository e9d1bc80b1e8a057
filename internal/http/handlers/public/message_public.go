package public

import (
	"errors"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitMessageRequest is a contact form submission.
type SubmitMessageRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Body        string `json:"body" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// SubmitMessage stores a contact form message.
func (h *Handler) SubmitMessage(c *gin.Context) {
	var req SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	message, err := h.MessageService.SubmitMessage(service.SubmitMessageInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Body:        req.Body,
		CaptchaID:   req.CaptchaID,
		CaptchaCode: req.CaptchaCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaInvalid):
			respondError(c, response.CodeBadRequest, "captcha invalid", nil)
		case errors.Is(err, service.ErrMessageInvalid):
			respondError(c, response.CodeBadRequest, "message invalid", nil)
		default:
			respondError(c, response.CodeInternal, "message submit failed", err)
		}
		return
	}
	response.Success(c, gin.H{"id": message.ID})
}

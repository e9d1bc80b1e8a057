package public

import (
	"errors"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitApplicationRequest is a school group-visit application.
type SubmitApplicationRequest struct {
	SchoolName   string `json:"school_name" binding:"required"`
	ContactName  string `json:"contact_name" binding:"required"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	EventID      string `json:"event_id"`
	StudentCount int    `json:"student_count" binding:"required"`
	Note         string `json:"note"`
	CaptchaID    string `json:"captcha_id"`
	CaptchaCode  string `json:"captcha_code"`
}

// SubmitSchoolApplication stores a group-visit application.
func (h *Handler) SubmitSchoolApplication(c *gin.Context) {
	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	application, err := h.ApplicationService.SubmitApplication(service.SubmitApplicationInput{
		SchoolName:   req.SchoolName,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		EventID:      req.EventID,
		StudentCount: req.StudentCount,
		Note:         req.Note,
		CaptchaID:    req.CaptchaID,
		CaptchaCode:  req.CaptchaCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaInvalid):
			respondError(c, response.CodeBadRequest, "captcha invalid", nil)
		case errors.Is(err, service.ErrApplicationInvalid):
			respondError(c, response.CodeBadRequest, "application invalid", nil)
		case errors.Is(err, service.ErrEventNotFound):
			respondError(c, response.CodeNotFound, "event not found", nil)
		default:
			respondError(c, response.CodeInternal, "application submit failed", err)
		}
		return
	}
	response.Success(c, gin.H{"id": application.ID})
}

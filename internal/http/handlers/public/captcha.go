package public

import (
	"github.com/stagelight/boxoffice/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha issues a captcha challenge.
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, response.CodeInternal, "captcha generate failed", err)
		return
	}
	response.Success(c, challenge)
}

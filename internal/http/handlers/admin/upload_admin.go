package admin

import (
	"github.com/stagelight/boxoffice/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadFile stores an uploaded file and returns its public URL.
// Multipart form: file, scene (gallery or event).
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file missing", err)
		return
	}
	url, err := h.UploadService.SaveFile(file, c.PostForm("scene"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "upload rejected", err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

type UploadFileResponse struct {
	Message  string `json:"message"`
	FileID   string `json:"fileId"`
	FileLink string `json:"fileLink"`
}

// FileHandler uploads a bare file to storage without attaching it to a
// policy.
type FileHandler struct {
	files    domain.FileStorage
	maxBytes int64
}

func NewFileHandler(files domain.FileStorage, maxBytes int64) *FileHandler {
	return &FileHandler{
		files:    files,
		maxBytes: maxBytes,
	}
}

func (h *FileHandler) HandleUpload(c *gin.Context) {
	upload, file, err := formUpload(c, "file")
	if err != nil {
		respondUploadError(c, err)
		return
	}
	defer closeQuietly(file)

	if upload == nil {
		respondError(c, domain.ErrFileRequired)
		return
	}
	if h.maxBytes > 0 && upload.Size > h.maxBytes {
		respondError(c, domain.ErrFileTooLarge)
		return
	}

	stored, err := h.files.Upload(c.Request.Context(), upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadFileResponse{
		Message:  "File uploaded successfully",
		FileID:   stored.ID,
		FileLink: stored.Link(),
	})
}

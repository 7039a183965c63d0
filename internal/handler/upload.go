package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

// formOverhead is the request body allowance on top of the file limit for
// form fields and part headers.
const formOverhead = 1 << 20

// LimitBody caps the request body at fileBytes plus formOverhead. Reading
// past the cap fails the multipart parse with domain.ErrFileTooLarge. A
// non-positive fileBytes leaves the body unbounded.
func LimitBody(fileBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if fileBytes <= 0 {
			c.Next()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fileBytes+formOverhead)
		c.Next()
	}
}

// formUpload opens the multipart file in field. It returns a nil Upload when
// the field is absent. The caller closes the returned file.
func formUpload(c *gin.Context, field string) (*domain.Upload, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrFileTooLarge, maxErr.Limit)
		}
		return nil, nil, fmt.Errorf("failed to read multipart form: %w", err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &domain.Upload{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, file, nil
}

// respondUploadError answers a formUpload failure. Oversized bodies get 413,
// anything else is a malformed form.
func respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrFileTooLarge) {
		respondError(c, err)
		return
	}
	respondBadRequest(c, err.Error())
}

func closeQuietly(file multipart.File) {
	if file != nil {
		_ = file.Close()
	}
}

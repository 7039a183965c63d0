package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/infra/googleauth"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorMapping struct {
	target error
	status int
	kind   string
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidAgentID, http.StatusBadRequest, "validation_error"},
	{domain.ErrInvalidUserID, http.StatusBadRequest, "validation_error"},
	{domain.ErrMissingCustomerEmail, http.StatusBadRequest, "validation_error"},
	{domain.ErrFileRequired, http.StatusBadRequest, "validation_error"},
	{domain.ErrUnsupportedFileType, http.StatusBadRequest, "validation_error"},
	{googleauth.ErrMissingCode, http.StatusBadRequest, "validation_error"},
	{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
	{domain.ErrPolicyNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrPolicyOutsideWindow, http.StatusConflict, "conflict"},
	{domain.ErrDispatchDisabled, http.StatusServiceUnavailable, "unavailable"},
	{domain.ErrTokenNotFound, http.StatusServiceUnavailable, "unavailable"},
}

// statusFor maps err to a response status and error kind. Unknown errors
// are internal.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.kind
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

func respondError(c *gin.Context, err error) {
	status, kind := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		message = "internal server error"
	}

	c.JSON(status, ErrorResponse{Error: kind, Message: message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: message})
}

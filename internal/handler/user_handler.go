package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/service/user"
)

type InitializeUserRequest struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type UploadPhotoResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	PhotoURL string `json:"photoURL"`
}

type UserHandler struct {
	userService *user.Service
}

func NewUserHandler(userService *user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) HandleInitialize(c *gin.Context) {
	ctx := c.Request.Context()

	var req InitializeUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondBadRequest(c, "invalid request body")
		return
	}

	profile, err := h.userService.Initialize(ctx, req.UID, req.Email, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) HandleGet(c *gin.Context) {
	profile, err := h.userService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) HandleUpdate(c *gin.Context) {
	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := h.userService.Update(c.Request.Context(), c.Param("uid"), changes); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Profile updated successfully"})
}

func (h *UserHandler) HandleUploadPhoto(c *gin.Context) {
	photo, file, err := formUpload(c, "photo")
	if err != nil {
		respondUploadError(c, err)
		return
	}
	defer closeQuietly(file)
	if photo == nil {
		respondError(c, domain.ErrFileRequired)
		return
	}

	link, err := h.userService.UploadPhoto(c.Request.Context(), c.PostForm("uid"), photo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadPhotoResponse{
		Success:  true,
		Message:  "Profile photo uploaded",
		PhotoURL: link,
	})
}

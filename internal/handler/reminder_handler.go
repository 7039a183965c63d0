package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/policy-hub/internal/service/reminder"
)

type SendReminderRequest struct {
	AgentID  string `json:"agentId"`
	PolicyID string `json:"policyId"`
}

type SendReminderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*reminder.SendResult
}

type ReminderHandler struct {
	reminderService *reminder.Service
	now             func() time.Time
}

func NewReminderHandler(reminderService *reminder.Service) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		now:             time.Now,
	}
}

func (h *ReminderHandler) HandleSend(c *gin.Context) {
	ctx := c.Request.Context()

	var req SendReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.PolicyID == "" {
		respondBadRequest(c, "policyId is required")
		return
	}

	result, err := h.reminderService.Send(ctx, req.AgentID, req.PolicyID, h.now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SendReminderResponse{
		Success:    true,
		Message:    "Reminder scheduled",
		SendResult: result,
	})
}

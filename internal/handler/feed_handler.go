package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/service/feed"
)

type FeedHandler struct {
	feedService *feed.Service
	now         func() time.Time
}

func NewFeedHandler(feedService *feed.Service) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		now:         time.Now,
	}
}

func (h *FeedHandler) HandleAlerts(c *gin.Context) {
	now, ok := h.asOf(c)
	if !ok {
		return
	}

	result, err := h.feedService.AlertFeed(c.Request.Context(), c.Query("agentId"), now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *FeedHandler) HandleReminders(c *gin.Context) {
	now, ok := h.asOf(c)
	if !ok {
		return
	}

	priority, valid := domain.ParsePriority(c.Query("priority"))
	if !valid {
		respondBadRequest(c, "unknown priority "+c.Query("priority"))
		return
	}

	result, err := h.feedService.ReminderFeed(c.Request.Context(), c.Query("agentId"), now, priority)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// asOf reads the optional asOf query parameter, falling back to the clock.
// It writes the error response itself when the value is malformed.
func (h *FeedHandler) asOf(c *gin.Context) (time.Time, bool) {
	v := c.Query("asOf")
	if v == "" {
		return h.now(), true
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		respondBadRequest(c, "invalid asOf time format, expected RFC3339")
		return time.Time{}, false
	}
	return t, true
}

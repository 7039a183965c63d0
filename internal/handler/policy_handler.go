package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/instant"
	"github.com/KasumiMercury/policy-hub/internal/service/policy"
)

type CreatePolicyResponse struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	PolicyID string  `json:"policyId"`
	FileLink *string `json:"fileLink"`
}

type PolicyHandler struct {
	policyService *policy.Service
}

func NewPolicyHandler(policyService *policy.Service) *PolicyHandler {
	return &PolicyHandler{
		policyService: policyService,
	}
}

func (h *PolicyHandler) HandleList(c *gin.Context) {
	policies, err := h.policyService.List(c.Request.Context(), c.Query("agentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, policies)
}

func (h *PolicyHandler) HandleGet(c *gin.Context) {
	p, err := h.policyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// HandleCreate returns a handler that stores a policy from a multipart form,
// reading the attached document from fileField. Only agentId is required.
func (h *PolicyHandler) HandleCreate(fileField string) gin.HandlerFunc {
	return h.create(fileField, false)
}

// HandleAdd stores a policy from a multipart form with its document in
// "document". policyNumber, customerName and an expiry date are required.
func (h *PolicyHandler) HandleAdd() gin.HandlerFunc {
	return h.create("document", true)
}

func (h *PolicyHandler) create(fileField string, requireCore bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		document, file, err := formUpload(c, fileField)
		if err != nil {
			respondUploadError(c, err)
			return
		}
		defer closeQuietly(file)

		input, err := bindCreateInput(c)
		if err != nil {
			slog.WarnContext(ctx, "invalid policy form",
				slog.String("path", c.Request.URL.Path),
				slog.String("error", err.Error()),
			)
			respondBadRequest(c, err.Error())
			return
		}
		if requireCore && !hasCoreFields(input) {
			respondBadRequest(c, "All fields are required.")
			return
		}

		result, err := h.policyService.Create(ctx, input, document)
		if err != nil {
			respondError(c, err)
			return
		}

		resp := CreatePolicyResponse{
			Success:  true,
			Message:  "Policy saved successfully",
			PolicyID: result.PolicyID,
		}
		if result.FileLink != "" {
			resp.FileLink = &result.FileLink
		}
		c.JSON(http.StatusOK, resp)
	}
}

func hasCoreFields(input policy.CreateInput) bool {
	return strings.TrimSpace(input.PolicyNumber) != "" &&
		strings.TrimSpace(input.Customer.Name) != "" &&
		!input.ExpiryDate.IsZero()
}

type formError struct {
	field string
	value string
}

func (e *formError) Error() string {
	return "invalid " + e.field + ": " + strconv.Quote(e.value)
}

func bindCreateInput(c *gin.Context) (policy.CreateInput, error) {
	input := policy.CreateInput{
		AgentID:      strings.TrimSpace(c.PostForm("agentId")),
		PolicyNumber: c.PostForm("policyNumber"),
		PolicyType:   c.PostForm("policyType"),
		Company:      c.PostForm("company"),
		Status:       domain.PolicyStatus(c.PostForm("status")),
		Customer: domain.Customer{
			Name:  c.PostForm("customerName"),
			Email: c.PostForm("customerEmail"),
			Phone: c.PostForm("customerPhone"),
		},
		DocumentType: c.PostForm("documentType"),
	}
	if input.AgentID == "" {
		return input, domain.ErrInvalidAgentID
	}

	var err error
	if input.StartDate, err = formDate(c, "startDate"); err != nil {
		return input, err
	}
	if input.ExpiryDate, err = formDate(c, "expiryDate", "endDate"); err != nil {
		return input, err
	}

	if v := c.PostForm("premiumAmount"); v != "" {
		input.PremiumAmount, err = strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(input.PremiumAmount) || math.IsInf(input.PremiumAmount, 0) {
			return input, &formError{field: "premiumAmount", value: v}
		}
	}
	if v := c.PostForm("reminderDaysBefore"); v != "" {
		input.ReminderDaysBefore, err = strconv.Atoi(v)
		if err != nil || input.ReminderDaysBefore < 0 {
			return input, &formError{field: "reminderDaysBefore", value: v}
		}
	}

	return input, nil
}

// formDate reads the first non-empty field among names. Blank yields the
// zero time.
func formDate(c *gin.Context, names ...string) (time.Time, error) {
	for _, name := range names {
		v := c.PostForm(name)
		if v == "" {
			continue
		}
		t, ok := instant.Normalize(v)
		if !ok {
			return time.Time{}, &formError{field: name, value: v}
		}
		return t, nil
	}
	return time.Time{}, nil
}

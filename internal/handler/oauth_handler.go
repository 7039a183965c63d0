package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/policy-hub/internal/infra/googleauth"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 600
)

// OAuthHandler drives the Google consent that authorizes Drive uploads.
type OAuthHandler struct {
	flow         *googleauth.Flow
	secureCookie bool
}

func NewOAuthHandler(flow *googleauth.Flow, secureCookie bool) *OAuthHandler {
	return &OAuthHandler{
		flow:         flow,
		secureCookie: secureCookie,
	}
}

func (h *OAuthHandler) HandleAuth(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, stateCookieMaxAge, "/", "", h.secureCookie, true)

	c.Redirect(http.StatusFound, h.flow.AuthCodeURL(state))
}

func (h *OAuthHandler) HandleCallback(c *gin.Context) {
	ctx := c.Request.Context()

	if errParam := c.Query("error"); errParam != "" {
		slog.WarnContext(ctx, "oauth consent denied",
			slog.String("event", "oauth.consent.denied"),
			slog.String("reason", errParam),
		)
		respondBadRequest(c, "authorization denied: "+errParam)
		return
	}

	expected, err := c.Cookie(stateCookieName)
	if err != nil || subtle.ConstantTimeCompare([]byte(expected), []byte(c.Query("state"))) != 1 {
		slog.WarnContext(ctx, "oauth state mismatch",
			slog.String("event", "oauth.state.mismatch"),
		)
		respondBadRequest(c, "invalid oauth state")
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", h.secureCookie, true)

	if err := h.flow.Exchange(ctx, c.Query("code")); err != nil {
		respondError(c, err)
		return
	}

	c.String(http.StatusOK, "Authorization successful. You can close this window.")
}

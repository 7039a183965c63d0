package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
	"golang.org/x/oauth2"

	"github.com/KasumiMercury/policy-hub/internal/infra/googleauth"
)

func newOAuthRouter(t *testing.T, store googleauth.TokenStore) *gin.Engine {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"access","token_type":"Bearer","refresh_token":"refresh","expires_in":3600}`)
	}))
	t.Cleanup(tokenSrv.Close)

	flow := googleauth.NewFlow(&oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:3000/oauth2callback",
		Scopes:       googleauth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/auth",
			TokenURL:  tokenSrv.URL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, store)

	h := NewOAuthHandler(flow, false)
	r := gin.New()
	r.GET("/google/auth", h.HandleAuth)
	r.GET("/oauth2callback", h.HandleCallback)
	return r
}

func TestOAuthHandlerAuthRedirects(t *testing.T) {
	r := newOAuthRouter(t, nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/google/auth", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}

	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("state missing from redirect")
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == stateCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != state {
		t.Errorf("state cookie = %v, want value %q", cookie, state)
	}
}

func callbackRequest(query, cookieState string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/oauth2callback?"+query, nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: cookieState})
	}
	return req
}

func TestOAuthHandlerCallback(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		cookieState string
		wantSave    bool
		wantCode    int
	}{
		{name: "exchanges code", query: "code=abc&state=s-1", cookieState: "s-1", wantSave: true, wantCode: http.StatusOK},
		{name: "missing code", query: "state=s-1", cookieState: "s-1", wantCode: http.StatusBadRequest},
		{name: "state mismatch", query: "code=abc&state=s-2", cookieState: "s-1", wantCode: http.StatusBadRequest},
		{name: "no state cookie", query: "code=abc&state=s-1", wantCode: http.StatusBadRequest},
		{name: "consent denied", query: "error=access_denied", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := googleauth.NewMockTokenStore(ctrl)
			if tt.wantSave {
				store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			}
			r := newOAuthRouter(t, store)

			w := serve(r, callbackRequest(tt.query, tt.cookieState))

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

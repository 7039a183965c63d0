package googleauth

import (
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/KasumiMercury/policy-hub/internal/config"
)

const (
	ScopeDriveFile = "https://www.googleapis.com/auth/drive.file"
	ScopeGmailSend = "https://www.googleapis.com/auth/gmail.send"
)

var Scopes = []string{ScopeDriveFile, ScopeGmailSend}

// NewOAuthConfig builds the OAuth client from a Google client secret file
// when one is configured, and from the individual settings otherwise.
// A redirect URI listed in the file takes precedence over the configured one.
func NewOAuthConfig(cfg *config.GoogleConfig) (*oauth2.Config, error) {
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read oauth client file: %w", err)
		}
		oauthCfg, err := google.ConfigFromJSON(data, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
		}
		if oauthCfg.RedirectURL == "" {
			oauthCfg.RedirectURL = cfg.RedirectURL
		}
		return oauthCfg, nil
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}, nil
}

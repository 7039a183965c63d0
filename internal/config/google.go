package config

import "os"

const (
	googleClientIDEnv     = "GOOGLE_OAUTH_CLIENT_ID"
	googleClientSecretEnv = "GOOGLE_OAUTH_CLIENT_SECRET"
	googleRedirectURLEnv  = "GOOGLE_OAUTH_REDIRECT_URL"
	googleConfigFileEnv   = "GOOGLE_OAUTH_CONFIG_FILE"
	driveFolderIDEnv      = "DRIVE_FOLDER_ID"
	driveTokenKeyEnv      = "DRIVE_TOKEN_KEY"

	defaultRedirectURL   = "http://localhost:3000/oauth2callback"
	defaultDriveTokenKey = "policy-hub:oauth:drive"
)

// GoogleConfig holds the OAuth client used for Drive uploads. ConfigFile,
// when set, takes precedence over the individual client fields.
type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	ConfigFile    string
	DriveFolderID string
	TokenKey      string
}

func LoadGoogleConfig() *GoogleConfig {
	redirectURL := os.Getenv(googleRedirectURLEnv)
	if redirectURL == "" {
		redirectURL = defaultRedirectURL
	}

	tokenKey := os.Getenv(driveTokenKeyEnv)
	if tokenKey == "" {
		tokenKey = defaultDriveTokenKey
	}

	return &GoogleConfig{
		ClientID:      os.Getenv(googleClientIDEnv),
		ClientSecret:  os.Getenv(googleClientSecretEnv),
		RedirectURL:   redirectURL,
		ConfigFile:    os.Getenv(googleConfigFileEnv),
		DriveFolderID: os.Getenv(driveFolderIDEnv),
		TokenKey:      tokenKey,
	}
}

func (c *GoogleConfig) Validate() error {
	if c == nil {
		return ErrGoogleClientMissing
	}
	if c.ConfigFile != "" {
		return nil
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrGoogleClientMissing
	}
	return nil
}

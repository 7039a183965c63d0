package config

import (
	"errors"
	"log/slog"
	"slices"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, env := range []string{
		"PORT", "LOG_LEVEL", "SERVICE_NAME", "CORS_ALLOWED_ORIGINS", "TASK_QUEUE_NAME",
		"TASK_QUEUE_MAX_RETRIES", "REDIS_ADDR", "REDIS_DB", "FIRESTORE_PROJECT_ID",
		"FIRESTORE_DATABASE_ID", "GOOGLE_CLOUD_PROJECT", "GOOGLE_OAUTH_REDIRECT_URL",
		"DRIVE_TOKEN_KEY", "MAX_DOCUMENT_BYTES", "MAX_PHOTO_BYTES",
	} {
		t.Setenv(env, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, slog.LevelInfo)
	}
	if cfg.ServiceName != "policy-hub" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "policy-hub")
	}
	if !slices.Equal(cfg.CORSOrigins, []string{"*"}) {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.TaskQueue.MaxRetries != 3 {
		t.Errorf("TaskQueue.MaxRetries = %d, want 3", cfg.TaskQueue.MaxRetries)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Redis.Addr, "localhost:6379")
	}
	if cfg.Firestore.DatabaseID != "(default)" {
		t.Errorf("Firestore.DatabaseID = %q, want %q", cfg.Firestore.DatabaseID, "(default)")
	}
	if cfg.Google.RedirectURL != "http://localhost:3000/oauth2callback" {
		t.Errorf("Google.RedirectURL = %q", cfg.Google.RedirectURL)
	}
	if cfg.Upload.MaxDocumentBytes != 20<<20 {
		t.Errorf("Upload.MaxDocumentBytes = %d, want %d", cfg.Upload.MaxDocumentBytes, 20<<20)
	}
	if cfg.Upload.MaxPhotoBytes != 5<<20 {
		t.Errorf("Upload.MaxPhotoBytes = %d, want %d", cfg.Upload.MaxPhotoBytes, 5<<20)
	}
}

func TestLoadRejectsMalformedIntegers(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{name: "redis db", env: "REDIS_DB", value: "one"},
		{name: "max retries", env: "TASK_QUEUE_MAX_RETRIES", value: "-1"},
		{name: "document limit", env: "MAX_DOCUMENT_BYTES", value: "big"},
		{name: "photo limit", env: "MAX_PHOTO_BYTES", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q error = nil, want error", tt.env, tt.value)
			}
		})
	}
}

func TestFirestoreProjectFallback(t *testing.T) {
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "gcp-project")

	cfg := LoadFirestoreConfig()
	if cfg.ProjectID != "gcp-project" {
		t.Errorf("ProjectID = %q, want %q", cfg.ProjectID, "gcp-project")
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: []string{"*"}},
		{raw: " , ", want: []string{"*"}},
		{raw: "http://a.example, http://b.example", want: []string{"http://a.example", "http://b.example"}},
	}

	for _, tt := range tests {
		if got := parseOrigins(tt.raw); !slices.Equal(got, tt.want) {
			t.Errorf("parseOrigins(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestValidateForRun(t *testing.T) {
	valid := &Config{
		Redis:     &RedisConfig{Addr: "localhost:6379"},
		Firestore: &FirestoreConfig{ProjectID: "p"},
		Google:    &GoogleConfig{ClientID: "id", ClientSecret: "secret"},
	}
	if err := ValidateForRun(valid); err != nil {
		t.Errorf("ValidateForRun(valid) = %v, want nil", err)
	}

	fromFile := &Config{
		Redis:     &RedisConfig{Addr: "localhost:6379"},
		Firestore: &FirestoreConfig{ProjectID: "p"},
		Google:    &GoogleConfig{ConfigFile: "/secrets/client.json"},
	}
	if err := ValidateForRun(fromFile); err != nil {
		t.Errorf("ValidateForRun(config file) = %v, want nil", err)
	}

	missing := &Config{
		Redis:     &RedisConfig{},
		Firestore: &FirestoreConfig{},
		Google:    &GoogleConfig{},
	}
	err := ValidateForRun(missing)
	for _, want := range []error{ErrRedisAddrMissing, ErrFirestoreProjectMissing, ErrGoogleClientMissing} {
		if !errors.Is(err, want) {
			t.Errorf("ValidateForRun(missing) = %v, want it to include %v", err, want)
		}
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RedisConfig
		wantTLS bool
	}{
		{name: "plain", cfg: RedisConfig{Addr: "localhost:6379", DB: 2}},
		{name: "tls", cfg: RedisConfig{Addr: "10.0.0.3:6378", TLS: true}, wantTLS: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.cfg.Options()

			if opts.Addr != tt.cfg.Addr || opts.DB != tt.cfg.DB {
				t.Errorf("Options() = {Addr: %q, DB: %d}, want {Addr: %q, DB: %d}", opts.Addr, opts.DB, tt.cfg.Addr, tt.cfg.DB)
			}
			if got := opts.TLSConfig != nil; got != tt.wantTLS {
				t.Errorf("TLS enabled = %v, want %v", got, tt.wantTLS)
			}
		})
	}
}

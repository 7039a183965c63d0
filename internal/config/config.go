package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	defaultPort        = "8080"
	defaultServiceName = "policy-hub"
)

type Config struct {
	Port        string
	LogLevel    slog.Level
	Env         string
	ServiceName string
	CORSOrigins []string
	TaskQueue   TaskQueueConfig
	Redis       *RedisConfig
	Firestore   *FirestoreConfig
	Google      *GoogleConfig
	Upload      *UploadConfig
}

type TaskQueueConfig struct {
	ReminderTasksURL string
	QueueName        string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "reminders"
	}

	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidMaxRetries
		}
		maxRetries = parsed
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	uploadConfig, err := LoadUploadConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        port,
		LogLevel:    parseLogLevel(os.Getenv("LOG_LEVEL")),
		Env:         os.Getenv("ENV"),
		ServiceName: serviceName,
		CORSOrigins: parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
		TaskQueue: TaskQueueConfig{
			ReminderTasksURL: os.Getenv("REMINDER_TASKS_URL"),
			QueueName:        queueName,

			GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

			MaxRetries: maxRetries,
		},
		Redis:     redisConfig,
		Firestore: LoadFirestoreConfig(),
		Google:    LoadGoogleConfig(),
		Upload:    uploadConfig,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

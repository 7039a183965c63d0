//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/policy-hub/internal/config"
	"github.com/KasumiMercury/policy-hub/internal/infra/taskqueue"
	"github.com/KasumiMercury/policy-hub/internal/observability"
	"github.com/KasumiMercury/policy-hub/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	if cfg.TaskQueue.ReminderTasksURL == "" {
		slog.Warn("REMINDER_TASKS_URL not set, reminder dispatch disabled")

		return nil, nil, nil
	}

	tq := taskqueue.NewHTTPTasksClient(
		cfg.TaskQueue.ReminderTasksURL,
		cfg.TaskQueue.QueueName,
		cfg.TaskQueue.MaxRetries,
	)

	slog.Info("task queue initialized",
		slog.String("type", "http_tasks"),
		slog.String("url", cfg.TaskQueue.ReminderTasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return tq, nil, nil
}

func initObservability(ctx context.Context, level slog.Leveler) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "policy-hub"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: Version,
		},
		Environment:   env,
		SamplingRate:  1.0,
		DefaultModule: serviceModule,
		LogLevel:      level,
	})
}

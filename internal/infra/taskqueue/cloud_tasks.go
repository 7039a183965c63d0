//go:build gcloud

package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type CloudTasksClient struct {
	client     *cloudtasks.Client
	queuePath  string
	targetURL  string
	maxRetries int
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksClient(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksClient, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	return &CloudTasksClient{
		client:     client,
		queuePath:  fmt.Sprintf("projects/%s/locations/%s/queues/%s", cfg.ProjectID, cfg.LocationID, cfg.QueueID),
		targetURL:  cfg.TargetURL,
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (c *CloudTasksClient) taskPath(taskID string) string {
	return c.queuePath + "/tasks/" + taskID
}

func (c *CloudTasksClient) RegisterReminder(ctx context.Context, task *ReminderTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder task: %w", err)
	}

	cloudTask := &taskspb.Task{
		Name: c.taskPath(task.TaskID),
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        c.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
				Body: payload,
			},
		},
	}
	if !task.ScheduleAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(task.ScheduleAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath,
		Task:   cloudTask,
	}

	var resp *TaskResponse
	err = retry(ctx, c.maxRetries, "register reminder task", task.TaskID, func(ctx context.Context) error {
		created, err := c.client.CreateTask(ctx, req)
		if err != nil {
			if status.Code(err) == codes.AlreadyExists || status.Code(err) == codes.InvalidArgument {
				return fmt.Errorf("%w: %w", errPermanent, err)
			}
			return fmt.Errorf("failed to create cloud task: %w", err)
		}

		var scheduleTime, createTime time.Time
		if created.ScheduleTime != nil {
			scheduleTime = created.ScheduleTime.AsTime()
		}
		if created.CreateTime != nil {
			createTime = created.CreateTime.AsTime()
		}
		resp = &TaskResponse{
			Name:         created.Name,
			ScheduleTime: scheduleTime,
			CreateTime:   createTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "reminder task registered",
		slog.String("event", "taskqueue.register.success"),
		slog.String("task_name", resp.Name),
		slog.String("policy_id", task.PolicyID),
	)
	return resp, nil
}

func (c *CloudTasksClient) DeleteTask(ctx context.Context, taskID string) error {
	return retry(ctx, c.maxRetries, "delete task", taskID, func(ctx context.Context) error {
		err := c.client.DeleteTask(ctx, &taskspb.DeleteTaskRequest{Name: c.taskPath(taskID)})
		if err == nil {
			return nil
		}
		if status.Code(err) == codes.NotFound {
			slog.InfoContext(ctx, "task not found in Cloud Tasks (may have been processed)",
				slog.String("task_id", taskID),
			)
			return nil
		}
		return fmt.Errorf("failed to delete cloud task: %w", err)
	})
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}

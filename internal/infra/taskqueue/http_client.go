//go:build !gcloud

package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/policy-hub/internal/observability/tracing"
)

// HTTPTasksClient talks to a Cloud Tasks compatible HTTP emulator used for
// local development.
type HTTPTasksClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
}

func NewHTTPTasksClient(baseURL, queueName string, maxRetries int) *HTTPTasksClient {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &HTTPTasksClient{
		baseURL:   baseURL,
		queueName: queueName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *HTTPTasksClient) queueURL() string {
	if c.queueName == "" || c.queueName == "default" {
		return c.baseURL + "/tasks"
	}
	return fmt.Sprintf("%s/tasks/%s", c.baseURL, url.PathEscape(c.queueName))
}

func (c *HTTPTasksClient) RegisterReminder(ctx context.Context, task *ReminderTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder task: %w", err)
	}

	reqBody := httpTaskRequest{
		Task: httpTask{
			Name: task.TaskID,
			HTTPRequest: httpTaskRequestBody{
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}
	if !task.ScheduleAt.IsZero() {
		reqBody.Task.ScheduleTime = task.ScheduleAt.UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task request: %w", err)
	}

	var resp *TaskResponse
	err = retry(ctx, c.maxRetries, "register reminder task", task.TaskID, func(ctx context.Context) error {
		r, err := c.post(ctx, body, task)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPTasksClient) post(ctx context.Context, body []byte, task *ReminderTask) (*TaskResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queueURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w: %w", errPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to tasks emulator",
			slog.String("task_id", task.TaskID),
			slog.String("policy_id", task.PolicyID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: unexpected status code: %d", errPermanent, resp.StatusCode)
	default:
		slog.WarnContext(ctx, "unexpected status code from tasks emulator",
			slog.String("task_id", task.TaskID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var taskResp httpTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&taskResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, taskResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, taskResp.CreateTime)

	slog.InfoContext(ctx, "reminder task registered",
		slog.String("event", "taskqueue.register.success"),
		slog.String("task_name", taskResp.Name),
		slog.String("policy_id", task.PolicyID),
	)

	return &TaskResponse{
		Name:         taskResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}

func (c *HTTPTasksClient) DeleteTask(ctx context.Context, taskID string) error {
	target := fmt.Sprintf("%s/%s", c.queueURL(), url.PathEscape(taskID))

	return retry(ctx, c.maxRetries, "delete task", taskID, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w: %w", errPermanent, err)
		}
		tracing.InjectToHTTPRequest(ctx, req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			slog.InfoContext(ctx, "task not found, treating as deleted",
				slog.String("task_id", taskID),
			)
			return nil
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return fmt.Errorf("%w: unexpected status code: %d", errPermanent, resp.StatusCode)
		default:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	})
}

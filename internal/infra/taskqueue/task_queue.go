package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue schedules reminder emails for delivery by a downstream worker.
type TaskQueue interface {
	RegisterReminder(ctx context.Context, task *ReminderTask) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
}

package taskqueue

import "time"

// ReminderTask is the payload delivered to the email worker. TaskID doubles
// as the queue task name, so registering the same ID twice is rejected.
type ReminderTask struct {
	ScheduleAt time.Time `json:"-"`

	TaskID          string    `json:"task_id"`
	AgentID         string    `json:"agent_id"`
	PolicyID        string    `json:"policy_id"`
	PolicyNumber    string    `json:"policy_number"`
	PolicyType      string    `json:"policy_type,omitempty"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	AlertType       string    `json:"alert_type"`
	Priority        string    `json:"priority"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	ExpiryDate      time.Time `json:"expiry_date"`
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type httpTaskRequest struct {
	Task httpTask `json:"task"`
}

type httpTask struct {
	Name         string              `json:"name,omitempty"`
	HTTPRequest  httpTaskRequestBody `json:"httpRequest"`
	ScheduleTime string              `json:"scheduleTime,omitempty"`
}

type httpTaskRequestBody struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type httpTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}

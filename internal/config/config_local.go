//go:build !gcloud

package config

// Without REMINDER_TASKS_URL reminder dispatch is disabled, so nothing is required.
func (c *TaskQueueConfig) Validate() error {
	return nil
}

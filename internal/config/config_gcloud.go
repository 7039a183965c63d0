//go:build gcloud

package config

import (
	"errors"
	"fmt"
)

// Validate requires the Cloud Tasks queue coordinates. Reminder dispatch is
// always enabled on Google Cloud.
func (c *TaskQueueConfig) Validate() error {
	required := []struct {
		env   string
		value string
	}{
		{"GCLOUD_PROJECT_ID", c.GCloudProjectID},
		{"GCLOUD_LOCATION_ID", c.GCloudLocationID},
		{"GCLOUD_QUEUE_ID", c.GCloudQueueID},
		{"GCLOUD_TARGET_URL", c.GCloudTargetURL},
	}

	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.env))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("task queue configuration: %w", err)
	}
	return nil
}

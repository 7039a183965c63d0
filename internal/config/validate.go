package config

import "errors"

// ValidateForRun reports every missing value the server needs to start.
func ValidateForRun(cfg *Config) error {
	return errors.Join(
		cfg.Redis.Validate(),
		cfg.Firestore.Validate(),
		cfg.Google.Validate(),
	)
}

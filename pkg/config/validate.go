// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidateCore reports every configuration problem in one error.
func (c *Config) ValidateCore() error {
	var problems []string

	if strings.TrimSpace(c.Server.Port) == "" {
		problems = append(problems, "SERVER_PORT is required")
	}
	if c.Notification.Workers <= 0 {
		problems = append(problems, "NOTIFICATION_WORKERS must be positive")
	}
	if c.Notification.QueueSize <= 0 {
		problems = append(problems, "NOTIFICATION_QUEUE_SIZE must be positive")
	}
	if c.HTTP.RateLimitPerMinute < 0 {
		problems = append(problems, "RATE_LIMIT_PER_MINUTE cannot be negative")
	}
	if _, err := c.Statistics.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("PERIOD_TIMEZONE %q is not a known location", c.Statistics.Timezone))
	}
	if c.Retention.MaxAge < 0 {
		problems = append(problems, "LOG_RETENTION cannot be negative")
	}
	if c.Retention.MaxAge > 0 {
		if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
			problems = append(problems, fmt.Sprintf("LOG_PRUNE_SCHEDULE %q is invalid", c.Retention.Schedule))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

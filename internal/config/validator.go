package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required fields
//   - Non-negative engine tuning values
//   - Worker and queue sizes that can make progress
func Validate(cfg *ServiceConfig) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	var errs []string
	if cfg.Version == "" {
		errs = append(errs, "version is required")
	}
	if cfg.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if cfg.Cases.Path == "" {
		errs = append(errs, "cases.path is required")
	}

	e := cfg.Engine
	if e.FetchWorkers < 1 {
		errs = append(errs, fmt.Sprintf("engine.fetch_workers must be >= 1, got %d", e.FetchWorkers))
	}
	if e.QueueDepth < 1 {
		errs = append(errs, fmt.Sprintf("engine.queue_depth must be >= 1, got %d", e.QueueDepth))
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"engine.fetch_timeout_ms", e.FetchTimeoutMs},
		{"engine.fetch_retries", e.FetchRetries},
		{"engine.retry_backoff_ms", e.RetryBackoffMs},
	} {
		if f.v < 0 {
			errs = append(errs, fmt.Sprintf("%s must not be negative, got %d", f.name, f.v))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

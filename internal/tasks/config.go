package tasks

import (
	"time"

	"github.com/mrlokans/bookgallery/internal/config"
)

// Config holds configuration for the task queue.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// MaxRetries is how many times a failed thumbnail download is attempted. Default: 3
	MaxRetries int

	// RetryDelay is the backoff between attempts. Default: 1m
	RetryDelay time.Duration

	// TaskTimeout bounds a single task execution. Default: 5m
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are purged. Default: 1h
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks are kept. Default: 24h
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// FromConfig converts the application task settings. Zero values fall back
// to DefaultConfig.
func FromConfig(cfg config.Tasks) Config {
	return Config{
		Workers:           cfg.Workers,
		MaxRetries:        cfg.MaxRetries,
		RetryDelay:        cfg.RetryDelay,
		TaskTimeout:       cfg.TaskTimeout,
		ReleaseAfter:      cfg.ReleaseAfter,
		CleanupInterval:   cfg.CleanupInterval,
		RetentionDuration: cfg.RetentionDuration,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = d.TaskTimeout
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.RetentionDuration <= 0 {
		c.RetentionDuration = d.RetentionDuration
	}
	return c
}

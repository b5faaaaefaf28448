package tasks

import "time"

// Config tunes the backlite client. Attempts, backoff and timeouts are per
// queue and live on each task's QueueConfig.
type Config struct {
	// Workers is the number of concurrent task workers. One long offline_sync
	// run must not block cache_chapter requests, so the default is 2.
	Workers int

	// ReleaseAfter returns a task to the queue if its worker went away. Default: 7h,
	// longer than the offline_sync timeout
	ReleaseAfter time.Duration

	// CleanupInterval is how often expired task records are purged. Default: 1h
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    7 * time.Hour,
		CleanupInterval: time.Hour,
	}
}

package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/aitafsir/internal/offline"
)

const QueueOfflineSync = "offline_sync"

// OfflineRunner runs the background download loop to completion.
type OfflineRunner interface {
	RunImmediately(ctx context.Context) error
}

// OfflineSyncTask downloads every chapter still missing from the cache.
type OfflineSyncTask struct{}

func (t OfflineSyncTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueOfflineSync,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     6 * time.Hour, // 114 chapters with cooldown and retries
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func OfflineSyncProcessor(runner OfflineRunner) backlite.QueueProcessor[OfflineSyncTask] {
	return func(ctx context.Context, task OfflineSyncTask) error {
		if runner == nil {
			return fmt.Errorf("offline syncer not configured")
		}
		err := runner.RunImmediately(ctx)
		if errors.Is(err, offline.ErrAlreadyRunning) {
			log.Printf("[TASK] Offline sync already running, nothing to do")
			return nil
		}
		if err != nil {
			return fmt.Errorf("offline sync: %w", err)
		}
		log.Printf("[TASK] Offline sync complete")
		return nil
	}
}

func NewOfflineSyncQueue(runner OfflineRunner) backlite.Queue {
	return backlite.NewQueue(OfflineSyncProcessor(runner))
}

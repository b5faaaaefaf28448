package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const QueueCacheChapter = "cache_chapter"

// ChapterSyncer downloads and records a single chapter.
type ChapterSyncer interface {
	SyncChapter(ctx context.Context, chapter int) error
}

// CacheChapterTask downloads one chapter into the offline cache.
type CacheChapterTask struct {
	Chapter int `json:"chapter"`
}

func (t CacheChapterTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueCacheChapter,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CacheChapterProcessor(syncer ChapterSyncer) backlite.QueueProcessor[CacheChapterTask] {
	return func(ctx context.Context, task CacheChapterTask) error {
		if syncer == nil {
			return fmt.Errorf("offline syncer not configured")
		}
		if err := syncer.SyncChapter(ctx, task.Chapter); err != nil {
			return fmt.Errorf("cache chapter %d: %w", task.Chapter, err)
		}
		log.Printf("[TASK] Cached chapter %d", task.Chapter)
		return nil
	}
}

func NewCacheChapterQueue(syncer ChapterSyncer) backlite.Queue {
	return backlite.NewQueue(CacheChapterProcessor(syncer))
}

// Package sync persists offline download progress.
//
// The completed-chapter set is what the background loop resumes from. It only
// grows. The status record mirrors the loop's current state for display.
//
// # Interface Implementation
//
//	var _ offline.ProgressStore = (*Repository)(nil)
//
// # Usage
//
//	repo := sync.NewRepository(db)
//	next, ok, err := repo.NextMissing(114)
package sync

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/entities"
)

// Repository handles all sync progress database operations.
type Repository struct {
	db       *gorm.DB
	syncType entities.SyncType
}

// NewRepository creates a new sync repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, syncType: entities.SyncTypeOffline}
}

// MarkComplete adds chapter to the completed set. Marking twice is a no-op.
func (r *Repository) MarkComplete(chapter int) error {
	row := entities.OfflineChapter{ChapterNumber: chapter, CompletedAt: time.Now()}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	return database.StorageError("mark chapter complete", err)
}

// Completed returns the completed chapter numbers in ascending order.
func (r *Repository) Completed() ([]int, error) {
	var numbers []int
	err := r.db.Model(&entities.OfflineChapter{}).
		Order("chapter_number").
		Pluck("chapter_number", &numbers).Error
	if err != nil {
		return nil, database.StorageError("list completed chapters", err)
	}
	return numbers, nil
}

// IsComplete reports whether chapter is in the completed set.
func (r *Repository) IsComplete(chapter int) (bool, error) {
	var count int64
	err := r.db.Model(&entities.OfflineChapter{}).Where("chapter_number = ?", chapter).Count(&count).Error
	if err != nil {
		return false, database.StorageError("check chapter", err)
	}
	return count > 0, nil
}

// NextMissing returns the lowest chapter in 1..total not yet completed.
// ok is false once every chapter is present.
func (r *Repository) NextMissing(total int) (int, bool, error) {
	done, err := r.Completed()
	if err != nil {
		return 0, false, err
	}
	next := 1
	for _, n := range done {
		if n < next {
			continue
		}
		if n != next {
			break
		}
		next++
	}
	if next > total {
		return 0, false, nil
	}
	return next, true, nil
}

// GetSyncProgress retrieves the status record. It returns nil without an
// error if the loop has never run.
func (r *Repository) GetSyncProgress() (*entities.SyncProgress, error) {
	var progress entities.SyncProgress
	err := r.db.Where("sync_type = ?", r.syncType).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, database.StorageError("get sync progress", err)
	}
	return &progress, nil
}

// StartSync creates or resets the status record for a new run.
func (r *Repository) StartSync(totalChapters, alreadyDone int) error {
	var progress entities.SyncProgress
	result := r.db.Where("sync_type = ?", r.syncType).First(&progress)

	now := time.Now()
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		progress = entities.SyncProgress{
			SyncType:          r.syncType,
			Status:            entities.SyncStatusRunning,
			TotalChapters:     totalChapters,
			CompletedChapters: alreadyDone,
			StartedAt:         now,
			UpdatedAt:         now,
		}
		return database.StorageError("start sync", r.db.Create(&progress).Error)
	} else if result.Error != nil {
		return database.StorageError("start sync", result.Error)
	}

	progress.Status = entities.SyncStatusRunning
	progress.TotalChapters = totalChapters
	progress.CompletedChapters = alreadyDone
	progress.FailedAttempts = 0
	progress.CurrentChapter = 0
	progress.LastError = ""
	progress.StartedAt = now
	progress.UpdatedAt = now
	progress.CompletedAt = nil

	return database.StorageError("start sync", r.db.Save(&progress).Error)
}

// UpdateProgress records the chapter being worked on and the running counts.
func (r *Repository) UpdateProgress(completed, failedAttempts, currentChapter int, lastError string) error {
	err := r.db.Model(&entities.SyncProgress{}).
		Where("sync_type = ?", r.syncType).
		Updates(map[string]any{
			"completed_chapters": completed,
			"failed_attempts":    failedAttempts,
			"current_chapter":    currentChapter,
			"last_error":         lastError,
			"updated_at":         time.Now(),
		}).Error
	return database.StorageError("update sync progress", err)
}

// CompleteSync marks the run as finished or stopped.
func (r *Repository) CompleteSync(succeeded bool, errorMsg string) error {
	now := time.Now()
	status := entities.SyncStatusCompleted
	if !succeeded {
		status = entities.SyncStatusFailed
	}

	updates := map[string]any{
		"status":          status,
		"current_chapter": 0,
		"updated_at":      now,
		"completed_at":    now,
	}
	if errorMsg != "" {
		updates["last_error"] = errorMsg
	}
	err := r.db.Model(&entities.SyncProgress{}).
		Where("sync_type = ?", r.syncType).
		Updates(updates).Error
	return database.StorageError("complete sync", err)
}

package entities

import "time"

// SyncType names the background job a status record belongs to.
type SyncType string

const SyncTypeOffline SyncType = "offline"

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncProgress is the observable status of a background download run.
// Resuming reads OfflineChapter; this record is informational only.
type SyncProgress struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	SyncType          SyncType   `gorm:"size:50;uniqueIndex" json:"sync_type"`
	Status            SyncStatus `gorm:"size:20" json:"status"`
	TotalChapters     int        `json:"total_chapters"`
	CompletedChapters int        `json:"completed_chapters"`
	FailedAttempts    int        `json:"failed_attempts"`
	CurrentChapter    int        `json:"current_chapter,omitempty"`
	LastError         string     `gorm:"type:text" json:"last_error,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

func (SyncProgress) TableName() string {
	return "sync_progress"
}

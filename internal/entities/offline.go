package entities

import "time"

// OfflineChapter marks a chapter whose every verse is in the cache.
// Rows are only ever inserted.
type OfflineChapter struct {
	ChapterNumber int       `gorm:"primaryKey;autoIncrement:false" json:"chapter_number"`
	CompletedAt   time.Time `json:"completed_at"`
}

func (OfflineChapter) TableName() string {
	return "offline_chapters"
}

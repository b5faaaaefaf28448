// Package verses is the durable cache for chapter and verse records.
//
// Writes are idempotent upserts keyed by chapter number or verse ID, so the
// last writer wins. A miss is never an error.
//
// # Usage
//
//	repo := verses.NewRepository(db)
//	verse, found, err := repo.GetVerse("1:1")
package verses

import (
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/entities"
)

// Repository handles all cached content database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new verses repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PutChapters upserts the given chapters in one transaction.
func (r *Repository) PutChapters(chapters []entities.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&chapters).Error
	return database.StorageError("put chapters", err)
}

// GetChapters returns every cached chapter ordered by number.
// An empty cache yields an empty slice.
func (r *Repository) GetChapters() ([]entities.Chapter, error) {
	var chapters []entities.Chapter
	if err := r.db.Find(&chapters).Error; err != nil {
		return nil, database.StorageError("get chapters", err)
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
	return chapters, nil
}

// PutVerse upserts a single verse under id, overwriting any existing record.
func (r *Repository) PutVerse(id string, verse entities.Verse) error {
	verse.ID = id
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&verse).Error
	return database.StorageError("put verse "+id, err)
}

// PutVerses upserts a batch of verses keyed by their own IDs in one transaction.
func (r *Repository) PutVerses(batch []entities.Verse) error {
	if len(batch) == 0 {
		return nil
	}
	for i := range batch {
		if batch[i].ID == "" {
			batch[i].ID = entities.VerseID(batch[i].SurahNumber, batch[i].AyahNumber)
		}
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&batch, 100).Error
	})
	return database.StorageError("put verses", err)
}

// GetVerse returns the cached verse for id. found is false on a miss.
func (r *Repository) GetVerse(id string) (*entities.Verse, bool, error) {
	var verse entities.Verse
	err := r.db.Where("id = ?", id).First(&verse).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, database.StorageError("get verse "+id, err)
	}
	return &verse, true, nil
}

// HasVerse reports whether id is cached without loading the record.
func (r *Repository) HasVerse(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&entities.Verse{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, database.StorageError("has verse "+id, err)
	}
	return count > 0, nil
}


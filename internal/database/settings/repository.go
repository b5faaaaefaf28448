// Package settings provides the key-value store behind preferences,
// the bookmark list and the stored AI credential.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	value, ok, err := repo.Get(entities.SettingKeyTheme)
package settings

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stored value for key. A missing key is reported with ok=false.
func (r *Repository) Get(key string) (string, bool, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, database.StorageError("get setting "+key, err)
	}
	return setting.Value, true, nil
}

// Set creates or replaces the value for key.
func (r *Repository) Set(key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	return database.StorageError("set setting "+key, err)
}

// Delete removes a key. Deleting a missing key is not an error.
func (r *Repository) Delete(key string) error {
	err := r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
	return database.StorageError("delete setting "+key, err)
}

package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/aitafsir/internal/entities"
)

// ErrStorageUnavailable means the local store could not be read or written.
// Callers degrade to "no offline cache" instead of failing the request.
var ErrStorageUnavailable = errors.New("storage unavailable")

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	return newDatabase(dbPath, logger.Default.LogMode(logger.Warn))
}

// NewQuietDatabase opens the database without SQL logging, for CLI commands and tests.
func NewQuietDatabase(dbPath string) (*Database, error) {
	return newDatabase(dbPath, logger.Default.LogMode(logger.Silent))
}

func newDatabase(dbPath string, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_journal=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Chapter{},
		&entities.Verse{},
		&entities.OfflineChapter{},
		&entities.SyncProgress{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// StorageError tags a storage-engine failure with ErrStorageUnavailable while
// keeping the driver error in the chain. Nil and record-not-found pass through.
func StorageError(op string, err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

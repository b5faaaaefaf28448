// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, storage error mapping
//	├── verses/          # Chapter and verse cache
//	├── bookmarks/       # Bookmark list kept under one settings key
//	├── sync/            # Offline progress set and sync status
//	└── settings/        # Key-value settings
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./aitafsir.db")
//
//	cache := verses.NewRepository(db.DB)
//	kv := settings.NewRepository(db.DB)
//	marks := bookmarks.NewStore(kv)
//	progress := sync.NewRepository(db.DB)
//
// Engine failures are wrapped with ErrStorageUnavailable so callers can treat
// them as a cache miss on reads and a no-op on writes.
package database

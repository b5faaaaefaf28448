package interfaces

// Compile-time interface implementation checks. A missing method on any of
// the concrete types below breaks the build of this package.

import (
	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/database/bookmarks"
	"github.com/mrlokans/aitafsir/internal/database/settings"
	"github.com/mrlokans/aitafsir/internal/database/sync"
	"github.com/mrlokans/aitafsir/internal/database/verses"
	"github.com/mrlokans/aitafsir/internal/gemini"
	"github.com/mrlokans/aitafsir/internal/http"
	"github.com/mrlokans/aitafsir/internal/offline"
	"github.com/mrlokans/aitafsir/internal/quran"
	"github.com/mrlokans/aitafsir/internal/reader"
	"github.com/mrlokans/aitafsir/internal/scheduler"
	"github.com/mrlokans/aitafsir/internal/settingsstore"
	"github.com/mrlokans/aitafsir/internal/tasks"
	"github.com/mrlokans/aitafsir/internal/tokenstore"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Key-value settings
var _ settingsstore.KV = (*settings.Repository)(nil)
var _ bookmarks.KV = (*settings.Repository)(nil)
var _ tokenstore.KV = (*settings.Repository)(nil)

// Verse cache
var _ reader.Cache = (*verses.Repository)(nil)
var _ offline.Cache = (*verses.Repository)(nil)

// Offline progress
var _ offline.ProgressStore = (*sync.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

// Content API
var _ reader.Remote = (*quran.Client)(nil)
var _ offline.Source = (*quran.Client)(nil)

// AI assistant
var _ http.Assistant = (*gemini.Client)(nil)
var _ http.AssistantProvider = http.GeminiProvider{}

// =============================================================================
// Preferences
// =============================================================================

var _ reader.Preferences = (*settingsstore.SettingsStore)(nil)
var _ offline.Narrator = (*settingsstore.SettingsStore)(nil)
var _ http.PreferenceStore = (*settingsstore.SettingsStore)(nil)

// =============================================================================
// HTTP Dependencies
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.Reader = (*reader.Service)(nil)
var _ http.BookmarkStore = (*bookmarks.Store)(nil)
var _ http.CredentialStore = (*tokenstore.TokenStore)(nil)
var _ http.OfflineMonitor = (*offline.Syncer)(nil)
var _ http.OfflineHistory = (*sync.Repository)(nil)
var _ http.ResumeScheduler = (*scheduler.OfflineResumeScheduler)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ scheduler.OfflineSyncer = (*offline.Syncer)(nil)
var _ tasks.ChapterSyncer = (*offline.Syncer)(nil)
var _ tasks.OfflineRunner = (*offline.Syncer)(nil)

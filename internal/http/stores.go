package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/aitafsir/internal/entities"
	"github.com/mrlokans/aitafsir/internal/gemini"
	"github.com/mrlokans/aitafsir/internal/offline"
	"github.com/mrlokans/aitafsir/internal/settingsstore"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller only takes the one it needs.

// Reader serves chapters and verses through the local cache.
type Reader interface {
	GetSurahs(ctx context.Context) ([]entities.Chapter, error)
	Chapter(ctx context.Context, number int) (entities.Chapter, error)
	GetAyah(ctx context.Context, surah, ayah int) (*entities.Verse, error)
	NextAyah(ctx context.Context, surah, ayah int) (int, int, bool, error)
	PrevAyah(ctx context.Context, surah, ayah int) (int, int, bool, error)
	VerseOfTheDay(ctx context.Context, at time.Time) (*entities.Verse, error)
	SavePosition(surah, ayah int) error
}

// BookmarkStore is the persisted bookmark list.
type BookmarkStore interface {
	List() ([]entities.Bookmark, error)
	Toggle(b entities.Bookmark) ([]entities.Bookmark, error)
	Remove(id string) ([]entities.Bookmark, error)
	UpdateNote(id, note string) ([]entities.Bookmark, error)
	Find(surah, ayah int) (entities.Bookmark, bool, error)
}

// PreferenceStore reads and patches user preferences.
type PreferenceStore interface {
	LanguageSource
	Get() (settingsstore.Preferences, error)
	Update(patch settingsstore.Patch) (settingsstore.Preferences, error)
}

// Assistant is the AI surface used by the search, exegesis and chat endpoints.
type Assistant interface {
	Search(ctx context.Context, query string, lang entities.Language) ([]gemini.SearchResult, error)
	Tafsir(ctx context.Context, verse entities.Verse, lang entities.Language) (*gemini.Tafsir, error)
	SurahOverview(ctx context.Context, surahName string, surahNumber int, lang entities.Language) (*gemini.SurahOverview, error)
	Chat(ctx context.Context, verse entities.Verse, history []gemini.ChatMessage, message string, lang entities.Language) (string, error)
}

// AssistantProvider hands out the assistant for the current API key.
type AssistantProvider interface {
	Assistant() (Assistant, error)
	Set(apiKey string) error
	Clear()
	Configured() bool
}

// GeminiProvider adapts gemini.Provider to AssistantProvider.
type GeminiProvider struct {
	*gemini.Provider
}

func (p GeminiProvider) Assistant() (Assistant, error) {
	client, err := p.Current()
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CredentialStore persists the AI key.
type CredentialStore interface {
	SaveAPIKey(key string) error
	ClearAPIKey() error
	HasAPIKey() bool
}

// OfflineMonitor reports background sync progress.
type OfflineMonitor interface {
	Status() offline.Status
}

// OfflineHistory reads the persisted record of the last download run.
type OfflineHistory interface {
	GetSyncProgress() (*entities.SyncProgress, error)
}

// ResumeScheduler reports when the sync loop will next be resumed.
type ResumeScheduler interface {
	GetNextRunTime() *time.Time
	IsRunning() bool
}

// TaskQueue enqueues tasks and reports their status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping() error
}

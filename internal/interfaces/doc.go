// Package interfaces documents the core abstractions used throughout the application.
//
// Interfaces are declared by the package that consumes them. This package
// only holds compile-time checks tying them to their implementations.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - settingsstore.KV, bookmarks.KV, tokenstore.KV: key-value settings (internal/database/settings)
//   - reader.Cache, offline.Cache: verse and chapter cache (internal/database/verses)
//   - offline.ProgressStore: completed chapters and run status (internal/database/sync)
//   - http.OfflineHistory: last persisted run record (internal/database/sync)
//
// ## External Service Interfaces
//
//   - reader.Remote, offline.Source: content API (internal/quran)
//   - http.Assistant, http.AssistantProvider: AI assistant (internal/gemini)
//
// ## Background Work Interfaces
//
//   - scheduler.OfflineSyncer: download loop supervised by cron (internal/offline)
//   - tasks.ChapterSyncer, tasks.OfflineRunner: queued downloads (internal/offline)
//
// # Adding a New Content Source
//
// A source only needs to satisfy the narrow interfaces its consumers declare:
//
//	type MirrorClient struct{ baseURL string }
//
//	func (c *MirrorClient) GetSurahs(ctx context.Context) ([]entities.Chapter, error)
//	func (c *MirrorClient) GetAyah(ctx context.Context, surah, ayah int, narrator string) (*entities.Verse, error)
//	func (c *MirrorClient) GetSurahVerses(ctx context.Context, surah int, narrator string) ([]entities.Verse, error)
//
//	var _ reader.Remote = (*MirrorClient)(nil)
//	var _ offline.Source = (*MirrorClient)(nil)
//
// Then pass it to reader.NewService and offline.NewSyncer in entrypoint.go.
//
// # Adding a New Background Task
//
//  1. Define the task type and its backlite.QueueConfig in internal/tasks/
//  2. Register the queue in entrypoint.go
//  3. Add the type to the list returned by GET /api/tasks/types
//
// # Compile-Time Interface Checks
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces

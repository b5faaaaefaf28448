// Package reader serves chapters and verses through the local cache, falling
// back to the content API on a miss and writing the result through.
package reader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/entities"
	"github.com/mrlokans/aitafsir/internal/quran"
)

// Cache is the local chapter and verse store.
type Cache interface {
	PutChapters(chapters []entities.Chapter) error
	GetChapters() ([]entities.Chapter, error)
	PutVerse(id string, verse entities.Verse) error
	GetVerse(id string) (*entities.Verse, bool, error)
}

// Remote is the content source consulted on a cache miss.
type Remote interface {
	GetSurahs(ctx context.Context) ([]entities.Chapter, error)
	GetAyah(ctx context.Context, surah, ayah int, narrator string) (*entities.Verse, error)
}

// Preferences supplies the narrator and remembers the reading position.
type Preferences interface {
	Narrator() string
	LastPosition() (surah, ayah int, ok bool)
	SavePosition(surah, ayah int) error
}

type Service struct {
	cache  Cache
	remote Remote
	prefs  Preferences

	mu       sync.RWMutex
	chapters []entities.Chapter
}

func NewService(cache Cache, remote Remote, prefs Preferences) *Service {
	return &Service{cache: cache, remote: remote, prefs: prefs}
}

// GetAyah returns the verse from the cache, or fetches it with the current
// narrator and stores it. Cache failures degrade to a remote fetch.
func (s *Service) GetAyah(ctx context.Context, surah, ayah int) (*entities.Verse, error) {
	if surah < 1 || surah > quranChapters || ayah < 1 {
		return nil, fmt.Errorf("ayah %d:%d: %w", surah, ayah, quran.ErrContentNotFound)
	}

	id := entities.VerseID(surah, ayah)
	cached, found, err := s.cache.GetVerse(id)
	if err != nil {
		logCacheError("read", id, err)
	} else if found {
		return cached, nil
	}

	if chapter, ok := s.knownChapter(surah); ok && !IsValidAyah(chapter, ayah) {
		return nil, fmt.Errorf("ayah %d:%d: %w", surah, ayah, quran.ErrContentNotFound)
	}

	verse, err := s.remote.GetAyah(ctx, surah, ayah, s.prefs.Narrator())
	if err != nil {
		return nil, err
	}

	if err := s.cache.PutVerse(id, *verse); err != nil {
		logCacheError("write", id, err)
	}
	return verse, nil
}

// GetSurahs returns the chapter list ordered by number. A fresh list from
// the API is written through; on fetch failure the cached list is served.
func (s *Service) GetSurahs(ctx context.Context) ([]entities.Chapter, error) {
	chapters, err := s.remote.GetSurahs(ctx)
	if err == nil {
		sortChapters(chapters)
		if cacheErr := s.cache.PutChapters(chapters); cacheErr != nil {
			logCacheError("write", "chapters", cacheErr)
		}
		s.remember(chapters)
		return chapters, nil
	}

	cached, cacheErr := s.cache.GetChapters()
	if cacheErr != nil {
		logCacheError("read", "chapters", cacheErr)
		return nil, err
	}
	if len(cached) == 0 {
		return nil, err
	}

	log.Printf("[OFFLINE] Serving %d cached chapters: %v", len(cached), err)
	sortChapters(cached)
	s.remember(cached)
	return cached, nil
}

// Chapter returns one chapter's metadata.
func (s *Service) Chapter(ctx context.Context, number int) (entities.Chapter, error) {
	chapters, err := s.loadedChapters(ctx)
	if err != nil {
		return entities.Chapter{}, err
	}
	for _, c := range chapters {
		if c.Number == number {
			return c, nil
		}
	}
	return entities.Chapter{}, fmt.Errorf("surah %d: %w", number, quran.ErrContentNotFound)
}

// IsValidAyah reports whether n addresses a verse within chapter.
func IsValidAyah(chapter entities.Chapter, n int) bool {
	return n > 0 && n <= chapter.NumberOfAyahs
}

// NextAyah returns the verse after surah:ayah, crossing into the next chapter
// from the last verse. ok is false at the end of the final chapter.
func (s *Service) NextAyah(ctx context.Context, surah, ayah int) (nextSurah, nextAyah int, ok bool, err error) {
	chapter, err := s.Chapter(ctx, surah)
	if err != nil {
		return 0, 0, false, err
	}
	switch {
	case ayah < chapter.NumberOfAyahs:
		return surah, ayah + 1, true, nil
	case surah < quranChapters:
		return surah + 1, 1, true, nil
	default:
		return surah, ayah, false, nil
	}
}

// PrevAyah returns the verse before surah:ayah. From the first verse it moves
// to the first verse of the previous chapter.
func (s *Service) PrevAyah(ctx context.Context, surah, ayah int) (prevSurah, prevAyah int, ok bool, err error) {
	if _, err := s.Chapter(ctx, surah); err != nil {
		return 0, 0, false, err
	}
	switch {
	case ayah > 1:
		return surah, ayah - 1, true, nil
	case surah > 1:
		return surah - 1, 1, true, nil
	default:
		return surah, ayah, false, nil
	}
}

// LastPosition returns the saved reading position, or 1:1.
func (s *Service) LastPosition() (surah, ayah int) {
	if surah, ayah, ok := s.prefs.LastPosition(); ok {
		return surah, ayah
	}
	return 1, 1
}

func (s *Service) SavePosition(surah, ayah int) error {
	return s.prefs.SavePosition(surah, ayah)
}

func (s *Service) loadedChapters(ctx context.Context) ([]entities.Chapter, error) {
	s.mu.RLock()
	chapters := s.chapters
	s.mu.RUnlock()
	if len(chapters) > 0 {
		return chapters, nil
	}
	return s.GetSurahs(ctx)
}

// knownChapter looks up chapter metadata already held in memory or in the
// cache. It never calls the remote.
func (s *Service) knownChapter(number int) (entities.Chapter, bool) {
	s.mu.RLock()
	chapters := s.chapters
	s.mu.RUnlock()
	if len(chapters) == 0 {
		cached, err := s.cache.GetChapters()
		if err != nil {
			logCacheError("read", "chapters", err)
			return entities.Chapter{}, false
		}
		chapters = cached
	}
	for _, c := range chapters {
		if c.Number == number {
			return c, true
		}
	}
	return entities.Chapter{}, false
}

func (s *Service) remember(chapters []entities.Chapter) {
	s.mu.Lock()
	s.chapters = chapters
	s.mu.Unlock()
}

const quranChapters = 114

func sortChapters(chapters []entities.Chapter) {
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
}

func logCacheError(op, key string, err error) {
	if errors.Is(err, database.ErrStorageUnavailable) {
		log.Printf("[OFFLINE] Cache unavailable, %s of %s skipped: %v", op, key, err)
		return
	}
	log.Printf("[OFFLINE] Cache %s of %s failed: %v", op, key, err)
}

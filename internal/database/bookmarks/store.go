// Package bookmarks keeps the user's bookmarks as one JSON list, newest first,
// under a single settings key.
//
// Every operation re-reads and re-writes the whole list. Lists are small
// (manual bookmarking), so there is no partial update path.
//
// # Usage
//
//	store := bookmarks.NewStore(settings.NewRepository(db))
//	list, err := store.Toggle(entities.Bookmark{ID: "2:255", SurahNumber: 2, AyahNumber: 255})
package bookmarks

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/mrlokans/aitafsir/internal/entities"
)

// KV is the key-value storage the list is persisted in.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store implements the bookmark operations.
type Store struct {
	kv  KV
	key string
	mu  sync.Mutex
}

// NewStore creates a store over kv using the default bookmarks key.
func NewStore(kv KV) *Store {
	return &Store{kv: kv, key: entities.SettingKeyBookmarks}
}

// List returns all bookmarks, newest first.
func (s *Store) List() ([]entities.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add prepends b unless a bookmark with the same ID exists.
func (s *Store) Add(b entities.Bookmark) ([]entities.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, err
	}
	if indexOf(list, b.ID) >= 0 {
		return list, nil
	}
	list = append([]entities.Bookmark{b}, list...)
	return list, s.save(list)
}

// Remove drops the bookmark with id. Removing a missing id is a no-op.
func (s *Store) Remove(id string) ([]entities.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(list, id)
	if i < 0 {
		return list, nil
	}
	list = append(list[:i:i], list[i+1:]...)
	return list, s.save(list)
}

// Toggle removes b if present, otherwise adds it.
func (s *Store) Toggle(b entities.Bookmark) ([]entities.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, err
	}
	if i := indexOf(list, b.ID); i >= 0 {
		list = append(list[:i:i], list[i+1:]...)
	} else {
		list = append([]entities.Bookmark{b}, list...)
	}
	return list, s.save(list)
}

// UpdateNote sets the note on an existing bookmark. The list is returned
// unchanged when id is not bookmarked; no bookmark is created.
func (s *Store) UpdateNote(id, note string) ([]entities.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(list, id)
	if i < 0 {
		return list, nil
	}
	list[i].Note = note
	return list, s.save(list)
}

// Find looks up the bookmark for a verse. found is false when absent.
func (s *Store) Find(surah, ayah int) (entities.Bookmark, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return entities.Bookmark{}, false, err
	}
	if i := indexOf(list, entities.VerseID(surah, ayah)); i >= 0 {
		return list[i], true, nil
	}
	return entities.Bookmark{}, false, nil
}

func (s *Store) load() ([]entities.Bookmark, error) {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	list := []entities.Bookmark{}
	if !ok || raw == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("Bookmarks: stored list is unreadable, starting empty: %v", err)
		return []entities.Bookmark{}, nil
	}
	return list, nil
}

func (s *Store) save(list []entities.Bookmark) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}

func indexOf(list []entities.Bookmark, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

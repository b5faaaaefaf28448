package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// contentServer imitates the content API for a few short chapters. Every
// chapter has ayahCount verses.
type contentServer struct {
	*httptest.Server

	ayahCount int

	mu       sync.Mutex
	paths    []string
	failures map[int]int
}

func newContentServer(t *testing.T, ayahCount int) *contentServer {
	t.Helper()
	cs := &contentServer{ayahCount: ayahCount, failures: map[int]int{}}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.handle))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *contentServer) Paths() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]string(nil), cs.paths...)
}

func (cs *contentServer) failNext(chapter, times int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.failures[chapter] = times
}

func (cs *contentServer) handle(w http.ResponseWriter, r *http.Request) {
	cs.mu.Lock()
	cs.paths = append(cs.paths, r.URL.Path)
	cs.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "surah":
		cs.write(w, []map[string]any{cs.surah(1), cs.surah(2)})

	case len(parts) == 4 && parts[0] == "surah":
		chapter, _ := strconv.Atoi(parts[1])
		if cs.consumeFailure(chapter) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		cs.write(w, cs.surahEditions(chapter))

	case len(parts) == 4 && parts[0] == "ayah":
		var chapter, ayah int
		if _, err := fmt.Sscanf(parts[1], "%d:%d", &chapter, &ayah); err != nil || ayah > cs.ayahCount {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		cs.write(w, cs.ayahEditions(chapter, ayah))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (cs *contentServer) consumeFailure(chapter int) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.failures[chapter] > 0 {
		cs.failures[chapter]--
		return true
	}
	return false
}

func (cs *contentServer) write(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"code": 200, "status": "OK", "data": data})
}

func (cs *contentServer) surah(n int) map[string]any {
	return map[string]any{
		"number":                 n,
		"name":                   fmt.Sprintf("سورة %d", n),
		"englishName":            fmt.Sprintf("Surah-%d", n),
		"englishNameTranslation": "Test",
		"numberOfAyahs":          cs.ayahCount,
		"revelationType":         "Meccan",
	}
}

var testEditions = []map[string]string{
	{"identifier": "quran-simple", "language": "ar", "format": "text", "type": "quran"},
	{"identifier": "bn.bengali", "language": "bn", "format": "text", "type": "translation"},
	{"identifier": "en.sahih", "language": "en", "format": "text", "type": "translation"},
	{"identifier": "ar.alafasy", "language": "ar", "format": "audio", "type": "versebyverse"},
}

func verseText(edition string, chapter, ayah int) string {
	return fmt.Sprintf("%s %d:%d", edition, chapter, ayah)
}

func (cs *contentServer) surahEditions(chapter int) []map[string]any {
	out := make([]map[string]any, 0, len(testEditions))
	for _, ed := range testEditions {
		entry := cs.surah(chapter)
		entry["edition"] = ed
		ayahs := make([]map[string]any, 0, cs.ayahCount)
		for a := 1; a <= cs.ayahCount; a++ {
			ayah := map[string]any{"number": a, "numberInSurah": a, "text": verseText(ed["identifier"], chapter, a)}
			if ed["format"] == "audio" {
				ayah["audio"] = fmt.Sprintf("https://cdn.example/%d/%d.mp3", chapter, a)
			}
			ayahs = append(ayahs, ayah)
		}
		entry["ayahs"] = ayahs
		out = append(out, entry)
	}
	return out
}

func (cs *contentServer) ayahEditions(chapter, ayah int) []map[string]any {
	out := make([]map[string]any, 0, len(testEditions))
	for _, ed := range testEditions {
		entry := map[string]any{
			"text":          verseText(ed["identifier"], chapter, ayah),
			"numberInSurah": ayah,
			"surah":         cs.surah(chapter),
			"edition":       ed,
		}
		if ed["format"] == "audio" {
			entry["audio"] = fmt.Sprintf("https://cdn.example/%d/%d.mp3", chapter, ayah)
		}
		out = append(out, entry)
	}
	return out
}

func tempDBPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "aitafsir.db")
}

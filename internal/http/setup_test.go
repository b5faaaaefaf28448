package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/database/bookmarks"
	"github.com/mrlokans/aitafsir/internal/database/settings"
	syncrepo "github.com/mrlokans/aitafsir/internal/database/sync"
	"github.com/mrlokans/aitafsir/internal/database/verses"
	"github.com/mrlokans/aitafsir/internal/entities"
	"github.com/mrlokans/aitafsir/internal/gemini"
	"github.com/mrlokans/aitafsir/internal/offline"
	"github.com/mrlokans/aitafsir/internal/quran"
	"github.com/mrlokans/aitafsir/internal/reader"
	"github.com/mrlokans/aitafsir/internal/settingsstore"
	"github.com/mrlokans/aitafsir/internal/tokenstore"
)

func testChapters() []entities.Chapter {
	return []entities.Chapter{
		{Number: 114, Name: "سُورَةُ النَّاسِ", EnglishName: "An-Naas", NumberOfAyahs: 6},
		{Number: 1, Name: "سُورَةُ ٱلْفَاتِحَةِ", EnglishName: "Al-Faatiha", NumberOfAyahs: 7},
		{Number: 2, Name: "سورة البقرة", EnglishName: "Al-Baqara", NumberOfAyahs: 286},
	}
}

type fakeRemote struct {
	chapters  []entities.Chapter
	surahsErr error
	ayahErr   error
	ayahCalls int
	narrators []string
}

func (r *fakeRemote) GetSurahs(ctx context.Context) ([]entities.Chapter, error) {
	if r.surahsErr != nil {
		return nil, r.surahsErr
	}
	return append([]entities.Chapter(nil), r.chapters...), nil
}

func (r *fakeRemote) GetAyah(ctx context.Context, surah, ayah int, narrator string) (*entities.Verse, error) {
	r.ayahCalls++
	r.narrators = append(r.narrators, narrator)
	if r.ayahErr != nil {
		return nil, r.ayahErr
	}
	return &entities.Verse{
		ID:               entities.VerseID(surah, ayah),
		SurahNumber:      surah,
		AyahNumber:       ayah,
		ArabicText:       fmt.Sprintf("arabic %d:%d", surah, ayah),
		TextBn:           fmt.Sprintf("bangla %d:%d", surah, ayah),
		TextEn:           fmt.Sprintf("english %d:%d", surah, ayah),
		SurahNameEnglish: "Test",
		AudioURL:         "https://cdn.example/" + narrator,
	}, nil
}

type fakeAssistant struct {
	results  []gemini.SearchResult
	tafsir   *gemini.Tafsir
	overview *gemini.SurahOverview
	reply    string
	err      error

	lastLang      entities.Language
	lastQuery     string
	lastVerse     entities.Verse
	lastHistory   []gemini.ChatMessage
	lastMessage   string
	lastSurahName string
}

func (a *fakeAssistant) Search(ctx context.Context, query string, lang entities.Language) ([]gemini.SearchResult, error) {
	a.lastQuery, a.lastLang = query, lang
	return a.results, a.err
}

func (a *fakeAssistant) Tafsir(ctx context.Context, verse entities.Verse, lang entities.Language) (*gemini.Tafsir, error) {
	a.lastVerse, a.lastLang = verse, lang
	return a.tafsir, a.err
}

func (a *fakeAssistant) SurahOverview(ctx context.Context, surahName string, surahNumber int, lang entities.Language) (*gemini.SurahOverview, error) {
	a.lastSurahName, a.lastLang = surahName, lang
	return a.overview, a.err
}

func (a *fakeAssistant) Chat(ctx context.Context, verse entities.Verse, history []gemini.ChatMessage, message string, lang entities.Language) (string, error) {
	a.lastVerse, a.lastHistory, a.lastMessage, a.lastLang = verse, history, message, lang
	if a.err != nil {
		return "", a.err
	}
	return a.reply, nil
}

type fakeProvider struct {
	assistant *fakeAssistant
	key       string
}

func (p *fakeProvider) Assistant() (Assistant, error) {
	if p.key == "" {
		return nil, gemini.ErrMissingCredential
	}
	return p.assistant, nil
}

func (p *fakeProvider) Set(apiKey string) error {
	p.key = apiKey
	return nil
}

func (p *fakeProvider) Clear()           { p.key = "" }
func (p *fakeProvider) Configured() bool { return p.key != "" }

type fakeMonitor struct {
	status offline.Status
}

func (m *fakeMonitor) Status() offline.Status { return m.status }

type fakeResumeScheduler struct {
	next    *time.Time
	running bool
}

func (s *fakeResumeScheduler) GetNextRunTime() *time.Time { return s.next }
func (s *fakeResumeScheduler) IsRunning() bool            { return s.running }

type fakeQueue struct {
	enqueued []backlite.Task
	status   backlite.TaskStatus
	err      error
}

func (q *fakeQueue) Enqueue(task backlite.Task) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.enqueued = append(q.enqueued, task)
	return fmt.Sprintf("task-%d", len(q.enqueued)), nil
}

func (q *fakeQueue) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return q.status, q.err
}

// testEnv wires the real storage-backed components around fake remotes.
type testEnv struct {
	router    *gin.Engine
	db        *database.Database
	remote    *fakeRemote
	assistant *fakeAssistant
	ai        *fakeProvider
	prefs     *settingsstore.SettingsStore
	bookmarks *bookmarks.Store
	tokens    *tokenstore.TokenStore
	monitor   *fakeMonitor
	history   *syncrepo.Repository
	resume    *fakeResumeScheduler
	queue     *fakeQueue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil)
}

// newTestEnvWith lets a test adjust the router config before the router is built.
func newTestEnvWith(t *testing.T, configure func(cfg *RouterConfig)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv(settingsstore.EnvLanguage, "")
	t.Setenv(settingsstore.EnvTheme, "")
	t.Setenv(settingsstore.EnvReciterID, "")

	dir := t.TempDir()
	db, err := database.NewQuietDatabase(filepath.Join(dir, "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kv := settings.NewRepository(db.DB)
	tokens, err := tokenstore.New(kv, tokenstore.Config{
		EncryptionKey: "test passphrase",
		KeyFilePath:   filepath.Join(dir, "key"),
	})
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		remote:    &fakeRemote{chapters: testChapters()},
		assistant: &fakeAssistant{},
		prefs:     settingsstore.New(kv, settingsstore.Defaults("ar.alafasy")),
		bookmarks: bookmarks.NewStore(kv),
		tokens:    tokens,
		monitor:   &fakeMonitor{},
		history:   syncrepo.NewRepository(db.DB),
		resume:    &fakeResumeScheduler{},
		queue:     &fakeQueue{},
	}
	env.ai = &fakeProvider{assistant: env.assistant}

	cfg := RouterConfig{
		Database:        db,
		Reader:          reader.NewService(verses.NewRepository(db.DB), env.remote, env.prefs),
		Bookmarks:       env.bookmarks,
		Preferences:     env.prefs,
		AI:              env.ai,
		Credentials:     tokens,
		Offline:         env.monitor,
		OfflineHistory:  env.history,
		ResumeScheduler: env.resume,
		TaskClient:      env.queue,
		Version:         "test",
	}
	if configure != nil {
		configure(&cfg)
	}
	env.router = NewRouter(cfg)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload := bytes.NewReader(nil)
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// serveHandler runs one request against a single handler mounted at route.
func serveHandler(t *testing.T, method, route, path string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, h)

	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	decodeJSON(t, w, &resp)
	return resp
}

var errNotFound = fmt.Errorf("ayah: %w", quran.ErrContentNotFound)

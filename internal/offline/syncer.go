// Package offline downloads every chapter into the local cache in the
// background, one chapter at a time, resuming from the persisted progress set.
package offline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/mrlokans/aitafsir/internal/entities"
)

var ErrAlreadyRunning = errors.New("offline sync already running")

type State string

const (
	StateIdle        State = "idle"
	StateScheduling  State = "scheduling"
	StateDownloading State = "downloading"
	StateCooldown    State = "cooldown"
	StateBackoff     State = "backoff"
	StateDone        State = "done"
)

// Source fetches a whole chapter in one call.
type Source interface {
	GetSurahVerses(ctx context.Context, surah int, narrator string) ([]entities.Verse, error)
}

// Cache receives downloaded verses.
type Cache interface {
	PutVerses(batch []entities.Verse) error
	HasVerse(id string) (bool, error)
}

// ProgressStore persists the completed-chapter set and the run status record.
type ProgressStore interface {
	MarkComplete(chapter int) error
	Completed() ([]int, error)
	IsComplete(chapter int) (bool, error)
	NextMissing(total int) (int, bool, error)
	StartSync(totalItems, alreadyDone int) error
	UpdateProgress(completed, failedAttempts, currentChapter int, lastError string) error
	CompleteSync(succeeded bool, errorMsg string) error
}

// Narrator reports the audio edition to request.
type Narrator interface {
	Narrator() string
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type Config struct {
	InitialDelay  time.Duration
	Cooldown      time.Duration
	Backoff       time.Duration
	TotalChapters int
}

// Status is a point-in-time view of the loop.
type Status struct {
	State          State  `json:"state"`
	Running        bool   `json:"running"`
	CurrentChapter int    `json:"current_chapter,omitempty"`
	Completed      int    `json:"completed"`
	Total          int    `json:"total"`
	Attempts       int    `json:"attempts"`
	FailedAttempts int    `json:"failed_attempts"`
	LastError      string `json:"last_error,omitempty"`
}

type Syncer struct {
	source   Source
	cache    Cache
	progress ProgressStore
	narrator Narrator
	cfg      Config
	sleep    Sleeper

	// download is held for the duration of one chapter download so that at
	// most one is in flight across Run and SyncChapter.
	download sync.Mutex

	mu      sync.Mutex
	running bool
	status  Status
}

type Option func(*Syncer)

// WithSleeper replaces the wait primitive used for the delay states.
func WithSleeper(sleep Sleeper) Option {
	return func(s *Syncer) {
		s.sleep = sleep
	}
}

func NewSyncer(source Source, cache Cache, progress ProgressStore, narrator Narrator, cfg Config, opts ...Option) *Syncer {
	if cfg.TotalChapters <= 0 {
		cfg.TotalChapters = 114
	}
	s := &Syncer{
		source:   source,
		cache:    cache,
		progress: progress,
		narrator: narrator,
		cfg:      cfg,
		sleep:    sleepContext,
		status:   Status{State: StateIdle, Total: cfg.TotalChapters},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refreshCompleted()
	return s
}

// Run drives the loop until every chapter is cached or ctx is cancelled.
// Failed chapters are retried after the backoff delay without limit.
func (s *Syncer) Run(ctx context.Context) error {
	return s.run(ctx, s.cfg.InitialDelay)
}

// RunImmediately is Run without the initial grace delay.
func (s *Syncer) RunImmediately(ctx context.Context) error {
	return s.run(ctx, 0)
}

func (s *Syncer) run(ctx context.Context, initialDelay time.Duration) error {
	if !s.begin() {
		return ErrAlreadyRunning
	}
	defer s.end()

	s.setState(StateIdle, 0)
	if err := s.sleep(ctx, initialDelay); err != nil {
		return err
	}

	mirrored := false
	for {
		s.setState(StateScheduling, 0)
		runtime.Gosched()

		chapter, missing, err := s.progress.NextMissing(s.cfg.TotalChapters)
		if err != nil {
			log.Printf("[OFFLINE] Failed to read progress: %v", err)
			s.recordFailure(err)
			if err := s.wait(ctx, StateBackoff, 0, s.cfg.Backoff); err != nil {
				return s.stop(err, mirrored)
			}
			continue
		}
		if !missing {
			s.setState(StateDone, 0)
			s.refreshCompleted()
			if mirrored {
				s.mirrorComplete(true, "")
				log.Printf("[OFFLINE] All %d chapters cached", s.cfg.TotalChapters)
			}
			return nil
		}

		if !mirrored {
			s.refreshCompleted()
			s.mirrorStart()
			mirrored = true
		}

		s.setState(StateDownloading, chapter)
		if err := s.downloadChapter(ctx, chapter); err != nil {
			if ctx.Err() != nil {
				return s.stop(ctx.Err(), mirrored)
			}
			log.Printf("[OFFLINE] Chapter %d failed, retrying in %s: %v", chapter, s.cfg.Backoff, err)
			if err := s.wait(ctx, StateBackoff, chapter, s.cfg.Backoff); err != nil {
				return s.stop(err, mirrored)
			}
			continue
		}

		if err := s.wait(ctx, StateCooldown, chapter, s.cfg.Cooldown); err != nil {
			return s.stop(err, mirrored)
		}
	}
}

// SyncChapter downloads a single chapter and marks it complete. It shares the
// in-flight guard with Run but leaves the loop state untouched. A chapter
// already in the completed set is not fetched again.
func (s *Syncer) SyncChapter(ctx context.Context, chapter int) error {
	if chapter < 1 || chapter > s.cfg.TotalChapters {
		return fmt.Errorf("chapter %d out of range 1..%d", chapter, s.cfg.TotalChapters)
	}
	done, err := s.progress.IsComplete(chapter)
	if err != nil {
		return fmt.Errorf("check chapter %d: %w", chapter, err)
	}
	if done {
		log.Printf("[OFFLINE] Chapter %d already cached", chapter)
		return nil
	}
	return s.downloadChapter(ctx, chapter)
}

// Pending reports whether any chapter is still missing from the cache.
func (s *Syncer) Pending() (bool, error) {
	_, missing, err := s.progress.NextMissing(s.cfg.TotalChapters)
	return missing, err
}

func (s *Syncer) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Running = s.running
	return st
}

func (s *Syncer) downloadChapter(ctx context.Context, chapter int) error {
	s.download.Lock()
	defer s.download.Unlock()

	s.mu.Lock()
	s.status.Attempts++
	s.mu.Unlock()

	if err := s.fetchAndStore(ctx, chapter); err != nil {
		s.recordFailure(err)
		return err
	}

	s.mu.Lock()
	s.status.LastError = ""
	s.mu.Unlock()
	s.refreshCompleted()
	s.mirrorUpdate("")
	log.Printf("[OFFLINE] Cached chapter %d", chapter)
	return nil
}

func (s *Syncer) fetchAndStore(ctx context.Context, chapter int) error {
	narrator := ""
	if s.narrator != nil {
		narrator = s.narrator.Narrator()
	}

	verses, err := s.source.GetSurahVerses(ctx, chapter, narrator)
	if err != nil {
		return fmt.Errorf("download chapter %d: %w", chapter, err)
	}

	pending := make([]entities.Verse, 0, len(verses))
	for _, v := range verses {
		if v.ID == "" {
			v.ID = entities.VerseID(v.SurahNumber, v.AyahNumber)
		}
		if cached, err := s.cache.HasVerse(v.ID); err == nil && cached {
			continue
		}
		pending = append(pending, v)
	}
	if err := s.cache.PutVerses(pending); err != nil {
		return fmt.Errorf("store chapter %d: %w", chapter, err)
	}
	if err := s.progress.MarkComplete(chapter); err != nil {
		return fmt.Errorf("mark chapter %d: %w", chapter, err)
	}
	return nil
}

func (s *Syncer) wait(ctx context.Context, state State, chapter int, d time.Duration) error {
	s.setState(state, chapter)
	return s.sleep(ctx, d)
}

func (s *Syncer) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Syncer) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *Syncer) setState(state State, chapter int) {
	s.mu.Lock()
	s.status.State = state
	s.status.CurrentChapter = chapter
	s.mu.Unlock()
}

func (s *Syncer) recordFailure(err error) {
	s.mu.Lock()
	s.status.FailedAttempts++
	s.status.LastError = err.Error()
	s.mu.Unlock()
	s.mirrorUpdate(err.Error())
}

func (s *Syncer) refreshCompleted() {
	done, err := s.progress.Completed()
	if err != nil {
		log.Printf("[OFFLINE] Failed to read completed chapters: %v", err)
		return
	}
	completed := 0
	for _, n := range done {
		if n >= 1 && n <= s.cfg.TotalChapters {
			completed++
		}
	}
	s.mu.Lock()
	s.status.Completed = completed
	s.mu.Unlock()
}

func (s *Syncer) stop(err error, mirrored bool) error {
	if mirrored {
		s.mirrorComplete(false, "sync stopped")
	}
	s.setState(StateIdle, 0)
	return err
}

func (s *Syncer) mirrorStart() {
	st := s.Status()
	if err := s.progress.StartSync(st.Total, st.Completed); err != nil {
		log.Printf("[OFFLINE] Failed to record sync start: %v", err)
	}
	log.Printf("[OFFLINE] Starting background download: %d/%d chapters cached", st.Completed, st.Total)
}

func (s *Syncer) mirrorUpdate(lastError string) {
	st := s.Status()
	if err := s.progress.UpdateProgress(st.Completed, st.FailedAttempts, st.CurrentChapter, lastError); err != nil {
		log.Printf("[OFFLINE] Failed to record progress: %v", err)
	}
}

func (s *Syncer) mirrorComplete(succeeded bool, msg string) {
	if err := s.progress.CompleteSync(succeeded, msg); err != nil {
		log.Printf("[OFFLINE] Failed to record sync end: %v", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

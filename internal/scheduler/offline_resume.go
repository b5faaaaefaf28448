package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/aitafsir/internal/offline"
)

// OfflineSyncer is the background download loop the scheduler supervises.
type OfflineSyncer interface {
	Run(ctx context.Context) error
	RunImmediately(ctx context.Context) error
	Pending() (bool, error)
	IsRunning() bool
}

// OfflineResumeScheduler starts the download loop at launch and restarts it
// on a cron schedule whenever chapters are still missing and no run is active.
type OfflineResumeScheduler struct {
	syncer   OfflineSyncer
	schedule string

	cron    *cron.Cron
	entryID cron.EntryID
	wg      sync.WaitGroup

	mu        sync.RWMutex
	isRunning bool
	runCtx    context.Context
	cancel    context.CancelFunc
}

func NewOfflineResumeScheduler(syncer OfflineSyncer, schedule string) *OfflineResumeScheduler {
	return &OfflineResumeScheduler{
		syncer:   syncer,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(newParser())),
	}
}

// Start schedules the resume job and launches the first run, which waits
// for the syncer's initial delay.
func (s *OfflineResumeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.resume(false)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule offline resume job: %w", err)
	}
	s.entryID = entryID

	s.runCtx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.isRunning = true

	log.Printf("[SCHEDULER] Offline resume: started with schedule '%s' (%s)",
		s.schedule, GetCronDescription(s.schedule))

	s.launchLocked(true)
	return nil
}

// Stop halts the cron job, cancels any active run and waits for it to return.
func (s *OfflineResumeScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	cronCtx := s.cron.Stop()
	s.cron.Remove(s.entryID)
	s.cancel()
	s.isRunning = false
	s.mu.Unlock()

	<-cronCtx.Done()
	s.wg.Wait()
	log.Printf("[SCHEDULER] Offline resume: stopped")
}

// RunNow starts a run without the initial delay if one is needed.
func (s *OfflineResumeScheduler) RunNow() bool {
	return s.resume(false)
}

func (s *OfflineResumeScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the resume job next fires.
func (s *OfflineResumeScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *OfflineResumeScheduler) resume(withDelay bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return false
	}
	return s.launchLocked(withDelay)
}

func (s *OfflineResumeScheduler) launchLocked(withDelay bool) bool {
	if s.syncer.IsRunning() {
		return false
	}
	pending, err := s.syncer.Pending()
	if err != nil {
		log.Printf("[SCHEDULER] Offline resume: failed to read progress: %v", err)
		return false
	}
	if !pending {
		return false
	}

	ctx := s.runCtx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		run := s.syncer.RunImmediately
		if withDelay {
			run = s.syncer.Run
		}
		err := run(ctx)
		switch {
		case err == nil, errors.Is(err, context.Canceled), errors.Is(err, offline.ErrAlreadyRunning):
		default:
			log.Printf("[SCHEDULER] Offline resume: run ended: %v", err)
		}
	}()
	return true
}

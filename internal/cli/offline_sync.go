package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/aitafsir/internal/config"
	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/database/settings"
	syncrepo "github.com/mrlokans/aitafsir/internal/database/sync"
	"github.com/mrlokans/aitafsir/internal/database/verses"
	"github.com/mrlokans/aitafsir/internal/offline"
	"github.com/mrlokans/aitafsir/internal/quran"
	"github.com/mrlokans/aitafsir/internal/settingsstore"
)

// OfflineSyncCommand downloads every missing chapter in the foreground.
type OfflineSyncCommand struct {
	DatabasePath   string
	ContentURL     string
	Narrator       string
	Cooldown       time.Duration
	Backoff        time.Duration
	Chapters       int
	ReportInterval time.Duration

	Out io.Writer
}

// NewOfflineSyncCommand creates a new OfflineSyncCommand
func NewOfflineSyncCommand() *OfflineSyncCommand {
	return &OfflineSyncCommand{Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *OfflineSyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("offline-sync", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.ContentURL, "content-url", config.DefaultContentBaseURL, "Base URL of the content API")
	fs.StringVar(&cmd.Narrator, "narrator", "", "Audio edition to download (defaults to the stored reciter preference)")
	fs.DurationVar(&cmd.Cooldown, "cooldown", 3*time.Second, "Wait after each downloaded chapter")
	fs.DurationVar(&cmd.Backoff, "backoff", 10*time.Second, "Wait after a failed chapter before retrying it")
	fs.IntVar(&cmd.Chapters, "chapters", config.TotalChapters, "Number of chapters to cache, starting from the first")
	fs.DurationVar(&cmd.ReportInterval, "report-every", 10*time.Second, "Progress report interval")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s offline-sync [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Download every chapter that is not cached yet, one at a time.\n")
		fmt.Fprintf(os.Stderr, "Progress is kept in the database, so an interrupted run resumes where it stopped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s offline-sync\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s offline-sync -db ~/aitafsir.db -cooldown 1s\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Chapters < 1 || cmd.Chapters > config.TotalChapters {
		return fmt.Errorf("-chapters must be between 1 and %d", config.TotalChapters)
	}
	return nil
}

// Run executes the sync until every chapter is cached or ctx is cancelled.
func (cmd *OfflineSyncCommand) Run(ctx context.Context) error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewQuietDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	prefs := settingsstore.New(settings.NewRepository(db.DB), settingsstore.Defaults(config.DefaultNarrator))
	var narrator offline.Narrator = prefs
	if cmd.Narrator != "" {
		narrator = fixedNarrator(cmd.Narrator)
	}

	progress := syncrepo.NewRepository(db.DB)
	syncer := offline.NewSyncer(
		quran.NewClient(cmd.ContentURL, 0),
		verses.NewRepository(db.DB),
		progress,
		narrator,
		offline.Config{
			Cooldown:      cmd.Cooldown,
			Backoff:       cmd.Backoff,
			TotalChapters: cmd.Chapters,
		},
	)

	fmt.Fprintln(cmd.Out, "Offline sync")
	fmt.Fprintln(cmd.Out, "============")
	fmt.Fprintf(cmd.Out, "Database: %s\n", absDBPath)
	fmt.Fprintf(cmd.Out, "Already cached: %d/%d chapters\n", syncer.Status().Completed, cmd.Chapters)

	stopReport := cmd.reportProgress(syncer)
	err = syncer.RunImmediately(ctx)
	stopReport()

	status := syncer.Status()
	fmt.Fprintf(cmd.Out, "\nCached: %d/%d chapters, %d failed attempts\n", status.Completed, status.Total, status.FailedAttempts)

	switch {
	case err == nil:
		fmt.Fprintln(cmd.Out, "All chapters are available offline.")
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(cmd.Out, "Interrupted. Run again to resume.")
		return nil
	default:
		return err
	}
}

func (cmd *OfflineSyncCommand) reportProgress(syncer *offline.Syncer) (stop func()) {
	if cmd.ReportInterval <= 0 {
		return func() {}
	}
	ticker := time.NewTicker(cmd.ReportInterval)
	quit := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for {
			select {
			case <-ticker.C:
				s := syncer.Status()
				fmt.Fprintf(cmd.Out, "  %s: %d/%d (chapter %d)\n", s.State, s.Completed, s.Total, s.CurrentChapter)
			case <-quit:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(quit)
		<-finished
	}
}

type fixedNarrator string

func (n fixedNarrator) Narrator() string { return string(n) }

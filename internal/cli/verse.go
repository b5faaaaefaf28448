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
	"github.com/mrlokans/aitafsir/internal/database/verses"
	"github.com/mrlokans/aitafsir/internal/entities"
	"github.com/mrlokans/aitafsir/internal/quran"
	"github.com/mrlokans/aitafsir/internal/reader"
	"github.com/mrlokans/aitafsir/internal/settingsstore"
)

// VerseCommand prints one verse through the local cache.
type VerseCommand struct {
	DatabasePath string
	ContentURL   string
	Surah        int
	Ayah         int
	Today        bool
	Lang         string

	Out io.Writer
	Now func() time.Time
}

// NewVerseCommand creates a new VerseCommand
func NewVerseCommand() *VerseCommand {
	return &VerseCommand{Out: os.Stdout, Now: time.Now}
}

// ParseFlags parses command line flags
func (cmd *VerseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("verse", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.ContentURL, "content-url", config.DefaultContentBaseURL, "Base URL of the content API")
	fs.IntVar(&cmd.Surah, "surah", 0, "Surah number (1-114)")
	fs.IntVar(&cmd.Ayah, "ayah", 0, "Ayah number within the surah")
	fs.BoolVar(&cmd.Today, "today", false, "Print the verse of the day")
	fs.StringVar(&cmd.Lang, "lang", "", "Translation language: bn or en (defaults to the stored preference)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s verse [-surah n -ayah n | -today] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print a verse with its translation. Cached verses are read without network access.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s verse -surah 2 -ayah 255\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s verse -today -lang en\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	return cmd.validate()
}

func (cmd *VerseCommand) validate() error {
	if cmd.Today {
		if cmd.Surah != 0 || cmd.Ayah != 0 {
			return errors.New("-today cannot be combined with -surah or -ayah")
		}
		return nil
	}
	if cmd.Surah < 1 || cmd.Surah > config.TotalChapters {
		return fmt.Errorf("-surah must be between 1 and %d", config.TotalChapters)
	}
	if cmd.Ayah < 1 {
		return errors.New("-ayah must be at least 1")
	}
	return nil
}

// Run prints the selected verse.
func (cmd *VerseCommand) Run(ctx context.Context) error {
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
	service := reader.NewService(verses.NewRepository(db.DB), quran.NewClient(cmd.ContentURL, 0), prefs)

	var verse *entities.Verse
	if cmd.Today {
		verse, err = service.VerseOfTheDay(ctx, cmd.Now())
	} else {
		verse, err = service.GetAyah(ctx, cmd.Surah, cmd.Ayah)
	}
	if err != nil {
		return fmt.Errorf("could not load ayah: %w", err)
	}

	lang := entities.ParseLanguage(cmd.Lang, prefs.Language())
	printVerse(cmd.Out, verse, lang)
	return nil
}

func printVerse(w io.Writer, v *entities.Verse, lang entities.Language) {
	fmt.Fprintf(w, "%s (%s) %d:%d\n\n", v.SurahNameEnglish, v.SurahNameArabic, v.SurahNumber, v.AyahNumber)
	fmt.Fprintf(w, "%s\n\n", v.ArabicText)
	if lang == entities.LanguageEnglish {
		fmt.Fprintln(w, v.TextEn)
	} else {
		fmt.Fprintln(w, v.TextBn)
	}
	if v.AudioURL != "" {
		fmt.Fprintf(w, "\nAudio: %s\n", v.AudioURL)
	}
}

package reader

import (
	"context"
	"errors"
	"time"

	"github.com/mrlokans/aitafsir/internal/entities"
)

// DayLayout renders a date the way the daily pick hashes it, e.g. "Wed Oct 14 2026".
const DayLayout = "Mon Jan 02 2006"

var ErrNoChapters = errors.New("surahs not loaded")

// DailyPick selects a verse for the given day string. The same day and
// chapter list always yield the same pair. chapters must be sorted by number.
func DailyPick(day string, chapters []entities.Chapter) (surah, ayah int, err error) {
	if len(chapters) == 0 {
		return 0, 0, ErrNoChapters
	}

	var hash int32
	for _, c := range day {
		hash = (hash << 5) - hash + int32(c)
	}

	chapter := chapters[abs64(int64(hash))%int64(len(chapters))]

	ayahHash := int64(hash<<5) - int64(hash) + int64(chapter.Number)
	if chapter.NumberOfAyahs < 1 {
		return chapter.Number, 1, nil
	}
	return chapter.Number, int(abs64(ayahHash)%int64(chapter.NumberOfAyahs)) + 1, nil
}

// VerseOfTheDay returns the verse picked for the local calendar day of at.
func (s *Service) VerseOfTheDay(ctx context.Context, at time.Time) (*entities.Verse, error) {
	chapters, err := s.loadedChapters(ctx)
	if err != nil {
		return nil, err
	}
	surah, ayah, err := DailyPick(at.Format(DayLayout), chapters)
	if err != nil {
		return nil, err
	}
	return s.GetAyah(ctx, surah, ayah)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

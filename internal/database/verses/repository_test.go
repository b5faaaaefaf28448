package verses

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	dbPath := filepath.Join(t.TempDir(), "verses.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Chapter{}, &entities.Verse{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db), db
}

func fatiha() entities.Verse {
	return entities.Verse{
		SurahNumber:      1,
		AyahNumber:       1,
		ArabicText:       "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ",
		TextBn:           "শুরু করছি আল্লাহর নামে",
		TextEn:           "In the name of Allah, the Entirely Merciful, the Especially Merciful.",
		SurahNameEnglish: "Al-Faatiha",
		SurahNameArabic:  "سُورَةُ ٱلْفَاتِحَةِ",
		AudioURL:         "https://cdn.islamic.network/quran/audio/128/ar.alafasy/1.mp3",
	}
}

func TestRepository_PutGetVerse_RoundTrip(t *testing.T) {
	repo, _ := setupTestDB(t)

	want := fatiha()
	require.NoError(t, repo.PutVerse("1:1", want))

	got, found, err := repo.GetVerse("1:1")
	require.NoError(t, err)
	require.True(t, found)

	want.ID = "1:1"
	assert.Equal(t, want, *got)
}

func TestRepository_GetVerse_Miss(t *testing.T) {
	repo, _ := setupTestDB(t)

	got, found, err := repo.GetVerse("2:255")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestRepository_HasVerse(t *testing.T) {
	repo, _ := setupTestDB(t)

	has, err := repo.HasVerse("1:1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.PutVerse("1:1", fatiha()))

	has, err = repo.HasVerse("1:1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasVerse("1:2")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRepository_PutVerse_LastWriterWins(t *testing.T) {
	repo, db := setupTestDB(t)

	first := fatiha()
	require.NoError(t, repo.PutVerse("1:1", first))

	second := fatiha()
	second.AudioURL = "https://cdn.example/ar.husary/1.mp3"
	require.NoError(t, repo.PutVerse("1:1", second))

	got, _, err := repo.GetVerse("1:1")
	require.NoError(t, err)
	assert.Equal(t, second.AudioURL, got.AudioURL)

	var count int64
	db.Model(&entities.Verse{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_PutVerses_Bulk(t *testing.T) {
	repo, db := setupTestDB(t)

	batch := make([]entities.Verse, 0, 7)
	for i := 1; i <= 7; i++ {
		v := fatiha()
		v.AyahNumber = i
		batch = append(batch, v)
	}
	require.NoError(t, repo.PutVerses(batch))

	var count int64
	db.Model(&entities.Verse{}).Where("surah_number = ?", 1).Count(&count)
	assert.Equal(t, int64(7), count)

	got, found, err := repo.GetVerse("1:7")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, got.AyahNumber)

	// Re-running the same chapter does not duplicate rows.
	require.NoError(t, repo.PutVerses(batch))
	db.Model(&entities.Verse{}).Where("surah_number = ?", 1).Count(&count)
	assert.Equal(t, int64(7), count)
}

func TestRepository_Chapters(t *testing.T) {
	repo, _ := setupTestDB(t)

	empty, err := repo.GetChapters()
	require.NoError(t, err)
	assert.Empty(t, empty)

	chapters := []entities.Chapter{
		{Number: 2, Name: "سُورَةُ البَقَرَةِ", EnglishName: "Al-Baqara", NumberOfAyahs: 286, RevelationType: "Medinan"},
		{Number: 1, Name: "سُورَةُ ٱلْفَاتِحَةِ", EnglishName: "Al-Faatiha", NumberOfAyahs: 7, RevelationType: "Meccan"},
	}
	require.NoError(t, repo.PutChapters(chapters))
	require.NoError(t, repo.PutChapters(chapters))

	got, err := repo.GetChapters()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, 2, got[1].Number)
	assert.Equal(t, 286, got[1].NumberOfAyahs)
}

func TestRepository_ConcurrentSameKeyWrites(t *testing.T) {
	repo, _ := setupTestDB(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := fatiha()
			v.AudioURL = fmt.Sprintf("https://cdn.example/%d.mp3", i)
			_ = repo.PutVerse("1:1", v)
		}(i)
	}
	wg.Wait()

	got, found, err := repo.GetVerse("1:1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, got.AudioURL, "https://cdn.example/")
}

func TestRepository_ClosedDB(t *testing.T) {
	repo, db := setupTestDB(t)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	_, _, err := repo.GetVerse("1:1")
	assert.ErrorIs(t, err, database.ErrStorageUnavailable)
	assert.ErrorIs(t, repo.PutVerse("1:1", fatiha()), database.ErrStorageUnavailable)
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/aitafsir/internal/database"
	syncrepo "github.com/mrlokans/aitafsir/internal/database/sync"
	"github.com/mrlokans/aitafsir/internal/database/verses"
	"github.com/mrlokans/aitafsir/internal/entities"
)

func newOfflineSyncCommand(t *testing.T, server *contentServer, dbPath string, chapters int) (*OfflineSyncCommand, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return &OfflineSyncCommand{
		DatabasePath: dbPath,
		ContentURL:   server.URL,
		Chapters:     chapters,
		Out:          out,
	}, out
}

func TestOfflineSyncCommand_ParseFlags(t *testing.T) {
	cmd := NewOfflineSyncCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-db", "/tmp/x.db", "-chapters", "3", "-cooldown", "0s", "-narrator", "ar.husary"}))
	assert.Equal(t, "/tmp/x.db", cmd.DatabasePath)
	assert.Equal(t, 3, cmd.Chapters)
	assert.Zero(t, cmd.Cooldown)
	assert.Equal(t, "ar.husary", cmd.Narrator)

	assert.Error(t, NewOfflineSyncCommand().ParseFlags([]string{"-chapters", "0"}))
	assert.Error(t, NewOfflineSyncCommand().ParseFlags([]string{"-chapters", "115"}))
}

func TestOfflineSyncCommand_Run(t *testing.T) {
	server := newContentServer(t, 3)
	dbPath := tempDBPath(t)

	cmd, out := newOfflineSyncCommand(t, server, dbPath, 2)
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), "Already cached: 0/2 chapters")
	assert.Contains(t, out.String(), "Cached: 2/2 chapters")
	assert.Contains(t, out.String(), "All chapters are available offline.")

	db, err := database.NewQuietDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	done, err := syncrepo.NewRepository(db.DB).Completed()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, done)

	verse, found, err := verses.NewRepository(db.DB).GetVerse(entities.VerseID(2, 3))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "en.sahih 2:3", verse.TextEn)
	assert.Equal(t, "https://cdn.example/2/3.mp3", verse.AudioURL)
}

func TestOfflineSyncCommand_ResumesFromProgress(t *testing.T) {
	server := newContentServer(t, 2)
	dbPath := tempDBPath(t)

	first, _ := newOfflineSyncCommand(t, server, dbPath, 1)
	require.NoError(t, first.Run(context.Background()))

	second, out := newOfflineSyncCommand(t, server, dbPath, 2)
	require.NoError(t, second.Run(context.Background()))

	assert.Contains(t, out.String(), "Already cached: 1/2 chapters")
	var chapterFetches []string
	for _, p := range server.Paths() {
		if strings.HasPrefix(p, "/surah/") {
			chapterFetches = append(chapterFetches, strings.Split(p, "/")[2])
		}
	}
	assert.Equal(t, []string{"1", "2"}, chapterFetches)
}

func TestOfflineSyncCommand_RetriesFailedChapter(t *testing.T) {
	server := newContentServer(t, 2)
	server.failNext(1, 2)

	cmd, out := newOfflineSyncCommand(t, server, tempDBPath(t), 1)
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), "Cached: 1/1 chapters, 2 failed attempts")
}

func TestOfflineSyncCommand_Interrupted(t *testing.T) {
	server := newContentServer(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd, out := newOfflineSyncCommand(t, server, tempDBPath(t), 2)
	require.NoError(t, cmd.Run(ctx))
	assert.Contains(t, out.String(), "Interrupted. Run again to resume.")
}

func TestOfflineSyncCommand_FewerChaptersThanCached(t *testing.T) {
	server := newContentServer(t, 2)
	dbPath := tempDBPath(t)

	first, _ := newOfflineSyncCommand(t, server, dbPath, 3)
	require.NoError(t, first.Run(context.Background()))

	second, out := newOfflineSyncCommand(t, server, dbPath, 2)
	require.NoError(t, second.Run(context.Background()))

	assert.Contains(t, out.String(), "Already cached: 2/2 chapters")
	assert.Contains(t, out.String(), "Cached: 2/2 chapters")
}

package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/aitafsir/internal/entities"
)

// VerseResponse is a verse with its bookmark state.
type VerseResponse struct {
	ID string `json:"id"`
	*entities.Verse
	Bookmarked bool   `json:"bookmarked"`
	Note       string `json:"note,omitempty"`
}

// AyahsController serves verses, navigation and the verse of the day.
type AyahsController struct {
	reader    Reader
	bookmarks BookmarkStore
	prefs     LanguageSource
	now       func() time.Time
}

func NewAyahsController(reader Reader, bookmarks BookmarkStore, prefs LanguageSource) *AyahsController {
	return &AyahsController{reader: reader, bookmarks: bookmarks, prefs: prefs, now: time.Now}
}

// Get handles GET /api/ayahs/:surah/:ayah
// The verse becomes the saved reading position.
func (ac *AyahsController) Get(c *gin.Context) {
	surah, ayah, ok := parseVerseParams(c)
	if !ok {
		return
	}
	ac.respondVerse(c, surah, ayah)
}

// Next handles GET /api/ayahs/:surah/:ayah/next
func (ac *AyahsController) Next(c *gin.Context) {
	surah, ayah, ok := parseVerseParams(c)
	if !ok {
		return
	}
	nextSurah, nextAyah, ok, err := ac.reader.NextAyah(c.Request.Context(), surah, ayah)
	if err != nil {
		respondFailure(c, err, requestLanguage(c, "", ac.prefs), msgAyahFailed)
		return
	}
	if !ok {
		respondNotFound(c, "next ayah")
		return
	}
	ac.respondVerse(c, nextSurah, nextAyah)
}

// Prev handles GET /api/ayahs/:surah/:ayah/prev
func (ac *AyahsController) Prev(c *gin.Context) {
	surah, ayah, ok := parseVerseParams(c)
	if !ok {
		return
	}
	prevSurah, prevAyah, ok, err := ac.reader.PrevAyah(c.Request.Context(), surah, ayah)
	if err != nil {
		respondFailure(c, err, requestLanguage(c, "", ac.prefs), msgAyahFailed)
		return
	}
	if !ok {
		respondNotFound(c, "previous ayah")
		return
	}
	ac.respondVerse(c, prevSurah, prevAyah)
}

// VerseOfTheDay handles GET /api/verse-of-the-day
func (ac *AyahsController) VerseOfTheDay(c *gin.Context) {
	verse, err := ac.reader.VerseOfTheDay(c.Request.Context(), ac.now())
	if err != nil {
		respondFailure(c, err, requestLanguage(c, "", ac.prefs), msgAyahFailed)
		return
	}
	c.JSON(http.StatusOK, ac.decorate(verse))
}

func (ac *AyahsController) respondVerse(c *gin.Context, surah, ayah int) {
	verse, err := ac.reader.GetAyah(c.Request.Context(), surah, ayah)
	if err != nil {
		respondFailure(c, err, requestLanguage(c, "", ac.prefs), msgAyahFailed)
		return
	}
	if err := ac.reader.SavePosition(verse.SurahNumber, verse.AyahNumber); err != nil {
		log.Printf("Failed to save reading position %d:%d: %v", verse.SurahNumber, verse.AyahNumber, err)
	}
	c.JSON(http.StatusOK, ac.decorate(verse))
}

func (ac *AyahsController) decorate(verse *entities.Verse) VerseResponse {
	resp := VerseResponse{
		ID:    entities.VerseID(verse.SurahNumber, verse.AyahNumber),
		Verse: verse,
	}
	if ac.bookmarks == nil {
		return resp
	}
	bookmark, found, err := ac.bookmarks.Find(verse.SurahNumber, verse.AyahNumber)
	if err != nil {
		log.Printf("Failed to read bookmark for %s: %v", resp.ID, err)
		return resp
	}
	resp.Bookmarked = found
	resp.Note = bookmark.Note
	return resp
}

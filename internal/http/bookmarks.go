package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/aitafsir/internal/entities"
)

// BookmarksController manages the bookmark list.
type BookmarksController struct {
	store BookmarkStore
	prefs LanguageSource
	now   func() time.Time
}

func NewBookmarksController(store BookmarkStore, prefs LanguageSource) *BookmarksController {
	return &BookmarksController{store: store, prefs: prefs, now: time.Now}
}

// ToggleBookmarkRequest identifies the verse to bookmark or unbookmark.
type ToggleBookmarkRequest struct {
	SurahNumber int    `json:"surahNumber" binding:"required,min=1,max=114"`
	AyahNumber  int    `json:"ayahNumber" binding:"required,min=1"`
	SurahName   string `json:"surahName"`
}

// UpdateNoteRequest sets a bookmark's note. An empty note clears it.
type UpdateNoteRequest struct {
	Note string `json:"note"`
}

// List handles GET /api/bookmarks
func (bc *BookmarksController) List(c *gin.Context) {
	list, err := bc.store.List()
	if err != nil {
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": list, "count": len(list)})
}

// Toggle handles POST /api/bookmarks/toggle
func (bc *BookmarksController) Toggle(c *gin.Context) {
	var req ToggleBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid bookmark", Code: CodeInvalidRequest, Details: err.Error()})
		return
	}

	id := entities.VerseID(req.SurahNumber, req.AyahNumber)
	list, err := bc.store.Toggle(entities.Bookmark{
		ID:          id,
		SurahNumber: req.SurahNumber,
		AyahNumber:  req.AyahNumber,
		SurahName:   req.SurahName,
		Timestamp:   bc.now().UnixMilli(),
	})
	if err != nil {
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         id,
		"bookmarked": contains(list, id),
		"bookmarks":  list,
	})
}

// Delete handles DELETE /api/bookmarks/:id
func (bc *BookmarksController) Delete(c *gin.Context) {
	id, ok := parseBookmarkID(c)
	if !ok {
		return
	}
	list, err := bc.store.Remove(id)
	if err != nil {
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": list, "count": len(list)})
}

// UpdateNote handles PUT /api/bookmarks/:id/note
func (bc *BookmarksController) UpdateNote(c *gin.Context) {
	id, ok := parseBookmarkID(c)
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	list, err := bc.store.UpdateNote(id, req.Note)
	if err != nil {
		bc.fail(c, err)
		return
	}
	if !contains(list, id) {
		respondNotFound(c, "bookmark")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": list, "count": len(list)})
}

// Find handles GET /api/bookmarks/find?surah=&ayah=
func (bc *BookmarksController) Find(c *gin.Context) {
	surah, ok := parseIntQuery(c, "surah")
	if !ok {
		return
	}
	ayah, ok := parseIntQuery(c, "ayah")
	if !ok {
		return
	}

	bookmark, found, err := bc.store.Find(surah, ayah)
	if err != nil {
		bc.fail(c, err)
		return
	}
	resp := gin.H{"bookmarked": found}
	if found {
		resp["bookmark"] = bookmark
	}
	c.JSON(http.StatusOK, resp)
}

func (bc *BookmarksController) fail(c *gin.Context, err error) {
	respondFailure(c, err, requestLanguage(c, "", bc.prefs), catalogueEntry{en: "Bookmarks are unavailable."})
}

// parseBookmarkID validates the :id parameter as a "surah:ayah" verse ID.
func parseBookmarkID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, _, err := entities.ParseVerseID(id); err != nil {
		respondBadRequest(c, "invalid bookmark id")
		return "", false
	}
	return id, true
}

func contains(list []entities.Bookmark, id string) bool {
	for _, b := range list {
		if b.ID == id {
			return true
		}
	}
	return false
}

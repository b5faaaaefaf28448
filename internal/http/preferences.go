package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/aitafsir/internal/settingsstore"
)

// PreferencesController reads and updates the stored preferences.
type PreferencesController struct {
	store PreferenceStore
}

func NewPreferencesController(store PreferenceStore) *PreferencesController {
	return &PreferencesController{store: store}
}

// Get handles GET /api/preferences
func (pc *PreferencesController) Get(c *gin.Context) {
	prefs, err := pc.store.Get()
	if err != nil {
		respondFailure(c, err, pc.store.Language(), catalogueEntry{en: "Failed to load preferences."})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Update handles PUT /api/preferences
// Only the fields present in the body change.
func (pc *PreferencesController) Update(c *gin.Context) {
	var patch settingsstore.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	prefs, err := pc.store.Update(patch)
	if err != nil {
		respondFailure(c, err, pc.store.Language(), catalogueEntry{en: "Failed to save preferences."})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

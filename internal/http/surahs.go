package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SurahsController serves the chapter list and AI chapter overviews.
type SurahsController struct {
	reader Reader
	ai     AssistantProvider
	prefs  LanguageSource
}

func NewSurahsController(reader Reader, ai AssistantProvider, prefs LanguageSource) *SurahsController {
	return &SurahsController{reader: reader, ai: ai, prefs: prefs}
}

// List handles GET /api/surahs
func (sc *SurahsController) List(c *gin.Context) {
	chapters, err := sc.reader.GetSurahs(c.Request.Context())
	if err != nil {
		respondFailure(c, err, requestLanguage(c, "", sc.prefs), msgSurahListFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"surahs": chapters,
		"count":  len(chapters),
	})
}

// Overview handles GET /api/surahs/:number/overview?lang=
func (sc *SurahsController) Overview(c *gin.Context) {
	number, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	lang := requestLanguage(c, "", sc.prefs)

	assistant, err := sc.ai.Assistant()
	if err != nil {
		respondFailure(c, err, lang, msgOverviewFailed)
		return
	}

	chapter, err := sc.reader.Chapter(c.Request.Context(), number)
	if err != nil {
		respondFailure(c, err, lang, msgOverviewFailed)
		return
	}

	overview, err := assistant.SurahOverview(c.Request.Context(), chapter.EnglishName, chapter.Number, lang)
	if err != nil {
		respondFailure(c, err, lang, msgOverviewFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"surah":    chapter,
		"language": lang,
		"overview": overview,
	})
}

package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/aitafsir/internal/entities"
	"github.com/mrlokans/aitafsir/internal/gemini"
)

// AssistantController handles AI search, exegesis and per-verse chat.
type AssistantController struct {
	ai     AssistantProvider
	reader Reader
	prefs  LanguageSource
}

func NewAssistantController(ai AssistantProvider, reader Reader, prefs LanguageSource) *AssistantController {
	return &AssistantController{ai: ai, reader: reader, prefs: prefs}
}

// SearchRequest is the request body for POST /api/search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Lang  string `json:"lang,omitempty"`
	// WithVerses loads each matched verse through the cache.
	WithVerses bool `json:"withVerses,omitempty"`
}

// SearchHit is one search result, optionally with its verse.
type SearchHit struct {
	gemini.SearchResult
	Verse *entities.Verse `json:"verse,omitempty"`
}

// Search handles POST /api/search
func (ac *AssistantController) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "query is required")
		return
	}
	lang := requestLanguage(c, req.Lang, ac.prefs)

	assistant, err := ac.ai.Assistant()
	if err != nil {
		respondFailure(c, err, lang, msgSearchFailed)
		return
	}
	results, err := assistant.Search(c.Request.Context(), req.Query, lang)
	if err != nil {
		respondFailure(c, err, lang, msgSearchFailed)
		return
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hit := SearchHit{SearchResult: r}
		if req.WithVerses {
			verse, err := ac.reader.GetAyah(c.Request.Context(), r.SurahNumber, r.AyahNumber)
			if err != nil {
				log.Printf("Search hit %d:%d could not be loaded: %v", r.SurahNumber, r.AyahNumber, err)
			} else {
				hit.Verse = verse
			}
		}
		hits = append(hits, hit)
	}

	resp := gin.H{"results": hits, "count": len(hits)}
	if len(hits) == 0 {
		resp["message"] = msgNoResults.in(lang)
	}
	c.JSON(http.StatusOK, resp)
}

// TafsirRequest is the optional request body for the tafsir endpoint.
type TafsirRequest struct {
	Lang string `json:"lang,omitempty"`
}

// Tafsir handles POST /api/ayahs/:surah/:ayah/tafsir
func (ac *AssistantController) Tafsir(c *gin.Context) {
	surah, ayah, ok := parseVerseParams(c)
	if !ok {
		return
	}
	var req TafsirRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}
	lang := requestLanguage(c, req.Lang, ac.prefs)

	assistant, err := ac.ai.Assistant()
	if err != nil {
		respondFailure(c, err, lang, msgTafsirFailed)
		return
	}
	verse, err := ac.reader.GetAyah(c.Request.Context(), surah, ayah)
	if err != nil {
		respondFailure(c, err, lang, msgAyahFailed)
		return
	}
	tafsir, err := assistant.Tafsir(c.Request.Context(), *verse, lang)
	if err != nil {
		respondFailure(c, err, lang, msgTafsirFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       entities.VerseID(surah, ayah),
		"language": lang,
		"tafsir":   tafsir,
	})
}

// ChatRequest is the request body for the chat endpoint. History holds the
// prior turns, oldest first.
type ChatRequest struct {
	Message string               `json:"message" binding:"required"`
	History []gemini.ChatMessage `json:"history,omitempty"`
	Lang    string               `json:"lang,omitempty"`
}

// Chat handles POST /api/ayahs/:surah/:ayah/chat
// The response carries the history extended with this exchange.
func (ac *AssistantController) Chat(c *gin.Context) {
	surah, ayah, ok := parseVerseParams(c)
	if !ok {
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "message is required")
		return
	}
	lang := requestLanguage(c, req.Lang, ac.prefs)

	assistant, err := ac.ai.Assistant()
	if err != nil {
		respondFailure(c, err, lang, msgChatFailed)
		return
	}
	verse, err := ac.reader.GetAyah(c.Request.Context(), surah, ayah)
	if err != nil {
		respondFailure(c, err, lang, msgAyahFailed)
		return
	}
	reply, err := assistant.Chat(c.Request.Context(), *verse, req.History, req.Message, lang)
	if err != nil {
		respondFailure(c, err, lang, msgChatFailed)
		return
	}

	history := append(req.History,
		gemini.ChatMessage{Role: gemini.RoleUser, Text: req.Message},
		gemini.ChatMessage{Role: gemini.RoleModel, Text: reply},
	)
	c.JSON(http.StatusOK, gin.H{
		"id":      entities.VerseID(surah, ayah),
		"reply":   reply,
		"history": history,
	})
}

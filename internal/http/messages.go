package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/aitafsir/internal/entities"
)

// catalogueEntry is a user-facing message. Entries without a Bengali text
// are shown in English regardless of language.
type catalogueEntry struct {
	bn string
	en string
}

var (
	msgNoResults = catalogueEntry{
		bn: "কোনো আয়াত পাওয়া যায়নি।",
		en: "No relevant ayahs found.",
	}
	msgSearchFailed = catalogueEntry{
		bn: "অনুসন্ধান ব্যর্থ হয়েছে।",
		en: "Search failed. Please check connection.",
	}
	msgAyahFailed      = catalogueEntry{en: "Could not load Ayah. It might not exist or network is down."}
	msgTafsirFailed    = catalogueEntry{en: "Failed to generate Tafsir."}
	msgOverviewFailed  = catalogueEntry{en: "Failed to load overview."}
	msgSurahListFailed = catalogueEntry{en: "Failed to load Surah list. Please check your connection."}
	msgMissingKey      = catalogueEntry{en: "API Key missing. Please set it in settings."}
	msgInvalidKey      = catalogueEntry{en: "API Key was rejected. Please update it in settings."}
	msgChatFailed      = catalogueEntry{en: "Failed to get a response. Please try again."}
)

func (m catalogueEntry) in(lang entities.Language) string {
	if lang == entities.LanguageBengali && m.bn != "" {
		return m.bn
	}
	return m.en
}

// LanguageSource reports the stored language preference.
type LanguageSource interface {
	Language() entities.Language
}

// requestLanguage picks the language for a response: an explicit value from
// the body, then the lang query parameter, then the stored preference.
func requestLanguage(c *gin.Context, explicit string, prefs LanguageSource) entities.Language {
	def := entities.LanguageBengali
	if prefs != nil {
		def = prefs.Language()
	}
	if explicit != "" {
		return entities.ParseLanguage(explicit, def)
	}
	return entities.ParseLanguage(c.Query("lang"), def)
}

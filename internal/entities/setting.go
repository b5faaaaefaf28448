package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys. Each preference is its own row.
const (
	SettingKeyBookmarks = "ai_tafsir_bookmarks"
	SettingKeyAIAPIKey  = "gemini_api_key"

	SettingKeyLanguage            = "language"
	SettingKeyTheme               = "theme"
	SettingKeyArabicFontSize      = "arabicFontSize"
	SettingKeyTranslationFontSize = "translationFontSize"
	SettingKeyReciterID           = "reciterId"
	SettingKeyContinuousPlay      = "continuousPlay"
	SettingKeyLastSurahNumber     = "lastSurahNumber"
	SettingKeyLastAyahNumber      = "lastAyahNumber"
)

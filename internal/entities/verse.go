package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholders used when the content API omits a translation edition.
const (
	TranslationUnavailableBn = "অনুবাদ অনুপলব্ধ"
	TranslationUnavailableEn = "Translation unavailable"
)

// Verse is one ayah with its original text, both translations and an optional
// recitation URL. ID is "{surah}:{ayah}".
type Verse struct {
	ID               string `gorm:"primaryKey;size:16" json:"-"`
	SurahNumber      int    `gorm:"index" json:"surahNumber"`
	AyahNumber       int    `json:"ayahNumber"`
	ArabicText       string `gorm:"type:text" json:"arabicText"`
	TextBn           string `gorm:"type:text" json:"textBn"`
	TextEn           string `gorm:"type:text" json:"textEn"`
	SurahNameEnglish string `gorm:"size:100" json:"surahNameEnglish"`
	SurahNameArabic  string `gorm:"size:100" json:"surahNameArabic"`
	AudioURL         string `gorm:"size:512" json:"audioUrl,omitempty"`
}

func (Verse) TableName() string {
	return "verses"
}

// VerseID builds the composite identity used by the cache and bookmarks.
func VerseID(surah, ayah int) string {
	return fmt.Sprintf("%d:%d", surah, ayah)
}

// ParseVerseID splits "{surah}:{ayah}" into its numbers.
func ParseVerseID(id string) (surah, ayah int, err error) {
	left, right, ok := strings.Cut(id, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid verse id %q", id)
	}
	surah, err = strconv.Atoi(left)
	if err != nil || surah < 1 {
		return 0, 0, fmt.Errorf("invalid surah in verse id %q", id)
	}
	ayah, err = strconv.Atoi(right)
	if err != nil || ayah < 1 {
		return 0, 0, fmt.Errorf("invalid ayah in verse id %q", id)
	}
	return surah, ayah, nil
}

package quran

import (
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/aitafsir/internal/entities"
)

var validate = validator.New()

// envelope is the wrapper every content API response comes in.
type envelope[T any] struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type apiSurah struct {
	Number                 int    `json:"number" validate:"min=1,max=114"`
	Name                   string `json:"name" validate:"required"`
	EnglishName            string `json:"englishName" validate:"required"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs" validate:"min=1"`
	RevelationType         string `json:"revelationType"`
}

type apiEdition struct {
	Identifier string `json:"identifier" validate:"required"`
	Language   string `json:"language" validate:"required"`
	Format     string `json:"format" validate:"required"`
	Type       string `json:"type"`
}

// apiAyah is one edition's rendering of a single verse (GET /ayah/...).
type apiAyah struct {
	Text          string     `json:"text"`
	Edition       apiEdition `json:"edition"`
	Surah         *apiSurah  `json:"surah" validate:"required"`
	NumberInSurah int        `json:"numberInSurah" validate:"min=1"`
	Audio         string     `json:"audio,omitempty"`
}

// apiSurahEdition is one edition of a whole chapter (GET /surah/{n}/editions/...).
// Chapter names live on this level, not on the verses.
type apiSurahEdition struct {
	apiSurah
	Edition apiEdition      `json:"edition"`
	Ayahs   []apiSurahVerse `json:"ayahs" validate:"required,min=1,dive"`
}

type apiSurahVerse struct {
	Number        int    `json:"number"`
	Text          string `json:"text"`
	NumberInSurah int    `json:"numberInSurah" validate:"min=1"`
	Audio         string `json:"audio,omitempty"`
}

func (s apiSurah) toChapter() entities.Chapter {
	return entities.Chapter{
		Number:                 s.Number,
		Name:                   s.Name,
		EnglishName:            s.EnglishName,
		EnglishNameTranslation: s.EnglishNameTranslation,
		NumberOfAyahs:          s.NumberOfAyahs,
		RevelationType:         s.RevelationType,
	}
}

func isOriginalText(e apiEdition) bool {
	return e.Language == "ar" && e.Format == "text"
}

func isAudio(e apiEdition) bool {
	return e.Format == "audio"
}

// isTranslation matches a text edition in lang. The audio edition is
// tagged "ar" too, so format has to be checked.
func isTranslation(e apiEdition, lang string) bool {
	return e.Language == lang && e.Format != "audio"
}

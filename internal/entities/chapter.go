package entities

// Chapter is a surah as listed by the content API.
// Records are immutable once fetched.
type Chapter struct {
	Number                 int    `gorm:"primaryKey;autoIncrement:false" json:"number" validate:"min=1,max=114"`
	Name                   string `gorm:"size:100" json:"name" validate:"required"`
	EnglishName            string `gorm:"size:100" json:"englishName" validate:"required"`
	EnglishNameTranslation string `gorm:"size:200" json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs" validate:"min=1"`
	RevelationType         string `gorm:"size:20" json:"revelationType"`
}

func (Chapter) TableName() string {
	return "chapters"
}

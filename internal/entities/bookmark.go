package entities

// Bookmark is stored as an element of a single JSON list, newest first.
// It is not a table.
type Bookmark struct {
	ID          string `json:"id"`
	SurahNumber int    `json:"surahNumber"`
	AyahNumber  int    `json:"ayahNumber"`
	SurahName   string `json:"surahName"`
	Timestamp   int64  `json:"timestamp"` // epoch millis
	Note        string `json:"note,omitempty"`
}

package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./aitafsir.db"

	DefaultContentBaseURL = "https://api.alquran.cloud/v1"
	DefaultNarrator       = "ar.alafasy"

	DefaultAIModel   = "gemini-2.5-flash"
	DefaultAIBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// TotalChapters is the number of surahs in the mushaf
	TotalChapters = 114
)

package entities

type Language string

const (
	LanguageBengali Language = "bn"
	LanguageEnglish Language = "en"
)

// ParseLanguage returns the language for s, falling back to def for unknown values.
func ParseLanguage(s string, def Language) Language {
	switch Language(s) {
	case LanguageBengali, LanguageEnglish:
		return Language(s)
	default:
		return def
	}
}

// DisplayName is the label used in AI prompts.
func (l Language) DisplayName() string {
	if l == LanguageBengali {
		return "Bengali (Bangla)"
	}
	return "English"
}

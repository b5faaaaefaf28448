package settingsstore

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/aitafsir/internal/entities"
)

// ErrInvalidPreference is returned when an update falls outside the allowed values.
var ErrInvalidPreference = errors.New("invalid preference")

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	DefaultArabicFontSize      = 36
	DefaultTranslationFontSize = 18
	DefaultReciterID           = "ar.alafasy"
)

// Environment variables consulted when no value is stored.
const (
	EnvLanguage  = "PREFERENCE_LANGUAGE"
	EnvTheme     = "PREFERENCE_THEME"
	EnvReciterID = "PREFERENCE_RECITER_ID"
)

var validate = validator.New()

// KV is the key-value backend the store keeps each preference in.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Preferences struct {
	Language            entities.Language `json:"language" validate:"oneof=bn en"`
	Theme               string            `json:"theme" validate:"oneof=light dark system"`
	ArabicFontSize      int               `json:"arabicFontSize" validate:"min=20,max=72"`
	TranslationFontSize int               `json:"translationFontSize" validate:"min=12,max=36"`
	ReciterID           string            `json:"reciterId" validate:"required"`
	ContinuousPlay      bool              `json:"continuousPlay"`
	LastSurahNumber     int               `json:"lastSurahNumber" validate:"min=0,max=114"`
	LastAyahNumber      int               `json:"lastAyahNumber" validate:"min=0"`
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Language            *entities.Language `json:"language,omitempty"`
	Theme               *string            `json:"theme,omitempty"`
	ArabicFontSize      *int               `json:"arabicFontSize,omitempty"`
	TranslationFontSize *int               `json:"translationFontSize,omitempty"`
	ReciterID           *string            `json:"reciterId,omitempty"`
	ContinuousPlay      *bool              `json:"continuousPlay,omitempty"`
	LastSurahNumber     *int               `json:"lastSurahNumber,omitempty"`
	LastAyahNumber      *int               `json:"lastAyahNumber,omitempty"`
}

// Priority: database > environment > default
type SettingsStore struct {
	kv       KV
	defaults Preferences
}

// Defaults returns the built-in preferences. A non-empty narrator replaces the
// default reciter.
func Defaults(narrator string) Preferences {
	p := Preferences{
		Language:            entities.LanguageBengali,
		Theme:               ThemeSystem,
		ArabicFontSize:      DefaultArabicFontSize,
		TranslationFontSize: DefaultTranslationFontSize,
		ReciterID:           DefaultReciterID,
	}
	if narrator != "" {
		p.ReciterID = narrator
	}
	return p
}

func New(kv KV, defaults Preferences) *SettingsStore {
	return &SettingsStore{kv: kv, defaults: defaults}
}

// Get returns the effective preferences. Stored values that no longer parse
// or fall outside the allowed range are ignored in favour of the environment
// or default.
func (s *SettingsStore) Get() (Preferences, error) {
	p := s.fallbacks()
	def := p

	values, err := s.load()
	if err != nil {
		return p, err
	}

	if v, ok := values[entities.SettingKeyLanguage]; ok {
		p.Language = entities.ParseLanguage(v, p.Language)
	}
	if v, ok := values[entities.SettingKeyTheme]; ok && isTheme(v) {
		p.Theme = v
	}
	if v, ok := values[entities.SettingKeyReciterID]; ok && v != "" {
		p.ReciterID = v
	}
	if v, ok := values[entities.SettingKeyContinuousPlay]; ok {
		p.ContinuousPlay = v == "true"
	}
	p.ArabicFontSize = intOr(values, entities.SettingKeyArabicFontSize, p.ArabicFontSize)
	p.TranslationFontSize = intOr(values, entities.SettingKeyTranslationFontSize, p.TranslationFontSize)
	p.LastSurahNumber = intOr(values, entities.SettingKeyLastSurahNumber, p.LastSurahNumber)
	p.LastAyahNumber = intOr(values, entities.SettingKeyLastAyahNumber, p.LastAyahNumber)

	if validate.StructPartial(p, "ArabicFontSize") != nil {
		p.ArabicFontSize = def.ArabicFontSize
	}
	if validate.StructPartial(p, "TranslationFontSize") != nil {
		p.TranslationFontSize = def.TranslationFontSize
	}
	if validate.StructPartial(p, "LastSurahNumber", "LastAyahNumber") != nil {
		p.LastSurahNumber = def.LastSurahNumber
		p.LastAyahNumber = def.LastAyahNumber
	}

	return p, nil
}

// Update applies patch on top of the current preferences, validates the
// result and persists only the fields that were set.
func (s *SettingsStore) Update(patch Patch) (Preferences, error) {
	p, err := s.Get()
	if err != nil {
		return p, err
	}

	writes := map[string]string{}
	if patch.Language != nil {
		p.Language = *patch.Language
		writes[entities.SettingKeyLanguage] = string(p.Language)
	}
	if patch.Theme != nil {
		p.Theme = *patch.Theme
		writes[entities.SettingKeyTheme] = p.Theme
	}
	if patch.ArabicFontSize != nil {
		p.ArabicFontSize = *patch.ArabicFontSize
		writes[entities.SettingKeyArabicFontSize] = strconv.Itoa(p.ArabicFontSize)
	}
	if patch.TranslationFontSize != nil {
		p.TranslationFontSize = *patch.TranslationFontSize
		writes[entities.SettingKeyTranslationFontSize] = strconv.Itoa(p.TranslationFontSize)
	}
	if patch.ReciterID != nil {
		p.ReciterID = *patch.ReciterID
		writes[entities.SettingKeyReciterID] = p.ReciterID
	}
	if patch.ContinuousPlay != nil {
		p.ContinuousPlay = *patch.ContinuousPlay
		writes[entities.SettingKeyContinuousPlay] = strconv.FormatBool(p.ContinuousPlay)
	}
	if patch.LastSurahNumber != nil {
		p.LastSurahNumber = *patch.LastSurahNumber
		writes[entities.SettingKeyLastSurahNumber] = strconv.Itoa(p.LastSurahNumber)
	}
	if patch.LastAyahNumber != nil {
		p.LastAyahNumber = *patch.LastAyahNumber
		writes[entities.SettingKeyLastAyahNumber] = strconv.Itoa(p.LastAyahNumber)
	}

	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidPreference, err)
	}

	for key, value := range writes {
		if err := s.kv.Set(key, value); err != nil {
			return p, fmt.Errorf("save %s: %w", key, err)
		}
	}
	return p, nil
}

// Narrator returns the audio edition to request with verses.
func (s *SettingsStore) Narrator() string {
	p, _ := s.Get()
	return p.ReciterID
}

func (s *SettingsStore) Language() entities.Language {
	p, _ := s.Get()
	return p.Language
}

// LastPosition returns the last viewed verse. ok is false when none was saved.
func (s *SettingsStore) LastPosition() (surah, ayah int, ok bool) {
	p, err := s.Get()
	if err != nil || p.LastSurahNumber < 1 {
		return 0, 0, false
	}
	ayah = p.LastAyahNumber
	if ayah < 1 {
		ayah = 1
	}
	return p.LastSurahNumber, ayah, true
}

func (s *SettingsStore) SavePosition(surah, ayah int) error {
	_, err := s.Update(Patch{LastSurahNumber: &surah, LastAyahNumber: &ayah})
	return err
}

func (s *SettingsStore) fallbacks() Preferences {
	p := s.defaults
	if v := os.Getenv(EnvLanguage); v != "" {
		p.Language = entities.ParseLanguage(v, p.Language)
	}
	if v := os.Getenv(EnvTheme); isTheme(v) {
		p.Theme = v
	}
	if v := os.Getenv(EnvReciterID); v != "" {
		p.ReciterID = v
	}
	return p
}

func (s *SettingsStore) load() (map[string]string, error) {
	keys := []string{
		entities.SettingKeyLanguage,
		entities.SettingKeyTheme,
		entities.SettingKeyArabicFontSize,
		entities.SettingKeyTranslationFontSize,
		entities.SettingKeyReciterID,
		entities.SettingKeyContinuousPlay,
		entities.SettingKeyLastSurahNumber,
		entities.SettingKeyLastAyahNumber,
	}
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		v, ok, err := s.kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		if ok {
			values[key] = v
		}
	}
	return values, nil
}

func isTheme(v string) bool {
	return v == ThemeLight || v == ThemeDark || v == ThemeSystem
}

func intOr(values map[string]string, key string, def int) int {
	v, ok := values[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

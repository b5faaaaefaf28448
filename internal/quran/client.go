// Package quran fetches chapters and verses from the Al-Quran Cloud API.
//
// The client makes a single attempt per call and does no caching; retry
// policy and caching belong to callers.
package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mrlokans/aitafsir/internal/entities"
)

var (
	// ErrContentNotFound means the requested chapter or verse does not exist.
	ErrContentNotFound = errors.New("content not found")
	// ErrContentFetchFailed covers network failures, bad statuses and malformed responses.
	ErrContentFetchFailed = errors.New("content fetch failed")
)

// Edition identifiers requested alongside the narrator's audio edition.
const (
	EditionOriginal  = "quran-simple"
	EditionBengali   = "bn.bengali"
	EditionEnglish   = "en.sahih"
	DefaultNarrator  = "ar.alafasy"
	DefaultBaseURL   = "https://api.alquran.cloud/v1"
	defaultUserAgent = "aitafsir/1.0 (https://github.com/mrlokans/aitafsir)"
)

// Client talks to the content API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a content client. An empty baseURL uses the public API.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// GetSurahs returns the chapter list.
func (c *Client) GetSurahs(ctx context.Context) ([]entities.Chapter, error) {
	var resp envelope[[]apiSurah]
	if err := c.get(ctx, "/surah", &resp); err != nil {
		return nil, fmt.Errorf("fetch surahs: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: surah list is empty", ErrContentFetchFailed)
	}

	chapters := make([]entities.Chapter, 0, len(resp.Data))
	for _, s := range resp.Data {
		if err := validate.Struct(s); err != nil {
			return nil, fmt.Errorf("%w: surah %d: %w", ErrContentFetchFailed, s.Number, err)
		}
		chapters = append(chapters, s.toChapter())
	}
	return chapters, nil
}

// GetAyah fetches one verse with its original text, both translations and the
// narrator's audio.
func (c *Client) GetAyah(ctx context.Context, surah, ayah int, narrator string) (*entities.Verse, error) {
	path := fmt.Sprintf("/ayah/%d:%d/editions/%s", surah, ayah, editions(narrator))

	var resp envelope[[]apiAyah]
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch ayah %d:%d: %w", surah, ayah, err)
	}

	verse, err := normalizeAyah(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("ayah %d:%d: %w", surah, ayah, err)
	}
	return verse, nil
}

// GetSurahVerses fetches every verse of a chapter in one request.
func (c *Client) GetSurahVerses(ctx context.Context, surah int, narrator string) ([]entities.Verse, error) {
	path := fmt.Sprintf("/surah/%d/editions/%s", surah, editions(narrator))

	var resp envelope[[]apiSurahEdition]
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch surah %d: %w", surah, err)
	}

	verses, err := normalizeSurah(surah, resp.Data)
	if err != nil {
		return nil, fmt.Errorf("surah %d: %w", surah, err)
	}
	return verses, nil
}

func editions(narrator string) string {
	if narrator == "" {
		narrator = DefaultNarrator
	}
	return strings.Join([]string{EditionOriginal, EditionBengali, EditionEnglish, narrator}, ",")
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", ErrContentFetchFailed, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrContentFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrContentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status: %d", ErrContentFetchFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrContentFetchFailed, err)
	}
	return nil
}

// normalizeAyah folds the per-edition array into one verse record.
func normalizeAyah(entries []apiAyah) (*entities.Verse, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no editions in response", ErrContentFetchFailed)
	}

	var original, bengali, english, audio *apiAyah
	for i := range entries {
		e := &entries[i]
		switch {
		case original == nil && isOriginalText(e.Edition):
			original = e
		case bengali == nil && isTranslation(e.Edition, "bn"):
			bengali = e
		case english == nil && isTranslation(e.Edition, "en"):
			english = e
		case audio == nil && isAudio(e.Edition):
			audio = e
		}
	}
	if original == nil {
		original = &entries[0]
	}
	if err := validate.Struct(original); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentFetchFailed, err)
	}
	if strings.TrimSpace(original.Text) == "" {
		return nil, fmt.Errorf("%w: original text missing", ErrContentFetchFailed)
	}

	verse := &entities.Verse{
		SurahNumber:      original.Surah.Number,
		AyahNumber:       original.NumberInSurah,
		ArabicText:       original.Text,
		TextBn:           entities.TranslationUnavailableBn,
		TextEn:           entities.TranslationUnavailableEn,
		SurahNameEnglish: original.Surah.EnglishName,
		SurahNameArabic:  original.Surah.Name,
	}
	verse.ID = entities.VerseID(verse.SurahNumber, verse.AyahNumber)
	if bengali != nil && bengali.Text != "" {
		verse.TextBn = bengali.Text
	}
	if english != nil && english.Text != "" {
		verse.TextEn = english.Text
	}
	if audio != nil {
		verse.AudioURL = audio.Audio
	}
	return verse, nil
}

// normalizeSurah zips the chapter editions verse by verse. The original-text
// edition defines which verses exist; translations are matched by number.
func normalizeSurah(surah int, editions []apiSurahEdition) ([]entities.Verse, error) {
	if len(editions) == 0 {
		return nil, fmt.Errorf("%w: no editions in response", ErrContentFetchFailed)
	}
	for i := range editions {
		if err := validate.Struct(editions[i]); err != nil {
			return nil, fmt.Errorf("%w: edition %q: %w", ErrContentFetchFailed, editions[i].Edition.Identifier, err)
		}
		if editions[i].Number != surah {
			return nil, fmt.Errorf("%w: edition %q is for surah %d", ErrContentFetchFailed, editions[i].Edition.Identifier, editions[i].Number)
		}
	}

	var original, bengali, english, audio *apiSurahEdition
	for i := range editions {
		e := &editions[i]
		switch {
		case original == nil && isOriginalText(e.Edition):
			original = e
		case bengali == nil && isTranslation(e.Edition, "bn"):
			bengali = e
		case english == nil && isTranslation(e.Edition, "en"):
			english = e
		case audio == nil && isAudio(e.Edition):
			audio = e
		}
	}
	if original == nil {
		original = &editions[0]
	}
	if len(original.Ayahs) != original.NumberOfAyahs {
		return nil, fmt.Errorf("%w: expected %d ayahs, got %d", ErrContentFetchFailed, original.NumberOfAyahs, len(original.Ayahs))
	}

	bnText := textByNumber(bengali)
	enText := textByNumber(english)
	audioURL := audioByNumber(audio)

	verses := make([]entities.Verse, 0, len(original.Ayahs))
	for _, a := range original.Ayahs {
		if strings.TrimSpace(a.Text) == "" {
			return nil, fmt.Errorf("%w: original text missing for ayah %d", ErrContentFetchFailed, a.NumberInSurah)
		}
		v := entities.Verse{
			ID:               entities.VerseID(surah, a.NumberInSurah),
			SurahNumber:      surah,
			AyahNumber:       a.NumberInSurah,
			ArabicText:       a.Text,
			TextBn:           entities.TranslationUnavailableBn,
			TextEn:           entities.TranslationUnavailableEn,
			SurahNameEnglish: original.EnglishName,
			SurahNameArabic:  original.Name,
			AudioURL:         audioURL[a.NumberInSurah],
		}
		if t := bnText[a.NumberInSurah]; t != "" {
			v.TextBn = t
		}
		if t := enText[a.NumberInSurah]; t != "" {
			v.TextEn = t
		}
		verses = append(verses, v)
	}
	return verses, nil
}

func textByNumber(e *apiSurahEdition) map[int]string {
	out := map[int]string{}
	if e == nil {
		return out
	}
	for _, a := range e.Ayahs {
		out[a.NumberInSurah] = a.Text
	}
	return out
}

func audioByNumber(e *apiSurahEdition) map[int]string {
	out := map[int]string{}
	if e == nil {
		return out
	}
	for _, a := range e.Ayahs {
		out[a.NumberInSurah] = a.Audio
	}
	return out
}

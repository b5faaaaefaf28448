package gemini

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Roles accepted in chat history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// MaxSearchResults caps the number of verses a search returns.
const MaxSearchResults = 5

type SearchResult struct {
	SurahNumber     int    `json:"surahNumber" validate:"min=1,max=114"`
	AyahNumber      int    `json:"ayahNumber" validate:"min=1"`
	Reasoning       string `json:"reasoning" validate:"required"`
	ConfidenceScore int    `json:"confidenceScore" validate:"min=0,max=100"`
}

type Tafsir struct {
	AyahReference string   `json:"ayahReference" validate:"required"`
	ArabicSnippet string   `json:"arabicSnippet"`
	TafsirText    string   `json:"tafsirText" validate:"required"`
	KeyThemes     []string `json:"keyThemes" validate:"required"`
}

type SurahOverview struct {
	SurahName         string   `json:"surahName" validate:"required"`
	Introduction      string   `json:"introduction" validate:"required"`
	HistoricalContext string   `json:"historicalContext" validate:"required"`
	KeyThemes         []string `json:"keyThemes" validate:"required"`
	KeyLessons        []string `json:"keyLessons" validate:"required"`
}

type ChatMessage struct {
	Role string `json:"role" validate:"oneof=user model"`
	Text string `json:"text" validate:"required"`
}

// Wire types for the generateContent endpoint.
type (
	generateRequest struct {
		SystemInstruction *content          `json:"systemInstruction,omitempty"`
		Contents          []content         `json:"contents"`
		GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	}

	content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}

	part struct {
		Text string `json:"text"`
	}

	generationConfig struct {
		ResponseMimeType string  `json:"responseMimeType,omitempty"`
		ResponseSchema   *schema `json:"responseSchema,omitempty"`
	}

	schema struct {
		Type       string             `json:"type"`
		Properties map[string]*schema `json:"properties,omitempty"`
		Items      *schema            `json:"items,omitempty"`
		Required   []string           `json:"required,omitempty"`
	}

	generateResponse struct {
		Candidates     []candidate     `json:"candidates"`
		PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
	}

	candidate struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	}

	promptFeedback struct {
		BlockReason string `json:"blockReason"`
	}

	apiError struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
)

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

func stringSchema() *schema { return &schema{Type: "STRING"} }

func stringArraySchema() *schema { return &schema{Type: "ARRAY", Items: stringSchema()} }

var (
	searchSchema = &schema{
		Type: "ARRAY",
		Items: &schema{
			Type: "OBJECT",
			Properties: map[string]*schema{
				"surahNumber":     {Type: "INTEGER"},
				"ayahNumber":      {Type: "INTEGER"},
				"reasoning":       stringSchema(),
				"confidenceScore": {Type: "INTEGER"},
			},
			Required: []string{"surahNumber", "ayahNumber", "reasoning", "confidenceScore"},
		},
	}

	tafsirSchema = &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"ayahReference": stringSchema(),
			"arabicSnippet": stringSchema(),
			"tafsirText":    stringSchema(),
			"keyThemes":     stringArraySchema(),
		},
		Required: []string{"ayahReference", "tafsirText", "keyThemes"},
	}

	overviewSchema = &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"surahName":         stringSchema(),
			"introduction":      stringSchema(),
			"historicalContext": stringSchema(),
			"keyThemes":         stringArraySchema(),
			"keyLessons":        stringArraySchema(),
		},
		Required: []string{"surahName", "introduction", "historicalContext", "keyThemes", "keyLessons"},
	}
)

package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/entities"
	"github.com/mrlokans/aitafsir/internal/gemini"
	"github.com/mrlokans/aitafsir/internal/quran"
	"github.com/mrlokans/aitafsir/internal/reader"
	"github.com/mrlokans/aitafsir/internal/settingsstore"
)

// Machine-readable error codes carried in ErrorResponse.Code.
const (
	CodeContentNotFound    = "content_not_found"
	CodeContentFetchFailed = "content_fetch_failed"
	CodeAIRequestFailed    = "ai_request_failed"
	CodeMissingCredential  = "missing_credential"
	CodeInvalidCredential  = "invalid_credential"
	CodeInvalidRequest     = "invalid_request"
	CodeStorageUnavailable = "storage_unavailable"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 with the invalid_request code.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidRequest})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeContentNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondFailure maps a domain error to a status and code. message is the
// user-facing text for the failed operation; a missing or rejected AI key
// always uses its own message.
func respondFailure(c *gin.Context, err error, lang entities.Language, message catalogueEntry) {
	switch {
	case errors.Is(err, gemini.ErrMissingCredential):
		c.JSON(http.StatusPreconditionFailed, ErrorResponse{Error: msgMissingKey.in(lang), Code: CodeMissingCredential})
	case errors.Is(err, gemini.ErrInvalidCredential):
		log.Printf("AI key rejected: %v", err)
		c.JSON(http.StatusPreconditionFailed, ErrorResponse{Error: msgInvalidKey.in(lang), Code: CodeInvalidCredential})
	case errors.Is(err, gemini.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: message.in(lang), Code: CodeInvalidRequest, Details: err.Error()})
	case errors.Is(err, gemini.ErrAIRequestFailed):
		log.Printf("AI request failed: %v", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: message.in(lang), Code: CodeAIRequestFailed})
	case errors.Is(err, quran.ErrContentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: message.in(lang), Code: CodeContentNotFound})
	case errors.Is(err, quran.ErrContentFetchFailed), errors.Is(err, reader.ErrNoChapters):
		log.Printf("Content fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: message.in(lang), Code: CodeContentFetchFailed})
	case errors.Is(err, settingsstore.ErrInvalidPreference):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid preferences", Code: CodeInvalidRequest, Details: err.Error()})
	case errors.Is(err, database.ErrStorageUnavailable):
		log.Printf("Storage unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "local storage unavailable", Code: CodeStorageUnavailable})
	default:
		respondInternalError(c, err, c.FullPath())
	}
}

// --- Parameter Parsing ---

// parseIntParam extracts a positive integer from URL parameters.
// Responds with a 400 error and returns 0, false when it is not one.
func parseIntParam(c *gin.Context, paramName string) (int, bool) {
	n, err := strconv.Atoi(c.Param(paramName))
	if err != nil || n < 1 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return n, true
}

// parseIntQuery is parseIntParam for query parameters. The parameter is required.
func parseIntQuery(c *gin.Context, paramName string) (int, bool) {
	raw := c.Query(paramName)
	if raw == "" {
		respondBadRequest(c, paramName+" is required")
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return n, true
}

// parseVerseParams reads the :surah and :ayah URL parameters.
func parseVerseParams(c *gin.Context) (surah, ayah int, ok bool) {
	if surah, ok = parseIntParam(c, "surah"); !ok {
		return 0, 0, false
	}
	if ayah, ok = parseIntParam(c, "ayah"); !ok {
		return 0, 0, false
	}
	return surah, ayah, true
}

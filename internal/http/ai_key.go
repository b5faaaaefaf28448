package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AIKeyController stores the AI key and swaps the active assistant.
type AIKeyController struct {
	credentials CredentialStore
	ai          AssistantProvider
}

func NewAIKeyController(credentials CredentialStore, ai AssistantProvider) *AIKeyController {
	return &AIKeyController{credentials: credentials, ai: ai}
}

// SetAIKeyRequest is the request body for PUT /api/settings/ai-key.
type SetAIKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// Save handles PUT /api/settings/ai-key
func (kc *AIKeyController) Save(c *gin.Context) {
	var req SetAIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.APIKey) == "" {
		respondBadRequest(c, "api_key is required")
		return
	}
	key := strings.TrimSpace(req.APIKey)

	if err := kc.credentials.SaveAPIKey(key); err != nil {
		respondInternalError(c, err, "save ai key")
		return
	}
	if err := kc.ai.Set(key); err != nil {
		respondInternalError(c, err, "configure ai client")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "API key saved"})
}

// Delete handles DELETE /api/settings/ai-key
func (kc *AIKeyController) Delete(c *gin.Context) {
	if err := kc.credentials.ClearAPIKey(); err != nil {
		respondInternalError(c, err, "clear ai key")
		return
	}
	kc.ai.Clear()
	c.JSON(http.StatusOK, SuccessResponse{Message: "API key removed"})
}

// Status handles GET /api/settings/ai-key/status
// The key itself is never returned.
func (kc *AIKeyController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"configured": kc.ai.Configured(),
		"stored":     kc.credentials.HasAPIKey(),
	})
}

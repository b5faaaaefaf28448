package http

import (
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Routes whose dependencies are nil in cfg are not registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	var prefs LanguageSource
	if cfg.Preferences != nil {
		prefs = cfg.Preferences
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.AI, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Reading endpoints
	if cfg.Reader != nil {
		ayahs := NewAyahsController(cfg.Reader, cfg.Bookmarks, prefs)
		api.GET("/ayahs/:surah/:ayah", ayahs.Get)
		api.GET("/ayahs/:surah/:ayah/next", ayahs.Next)
		api.GET("/ayahs/:surah/:ayah/prev", ayahs.Prev)
		api.GET("/verse-of-the-day", ayahs.VerseOfTheDay)

		surahs := NewSurahsController(cfg.Reader, cfg.AI, prefs)
		api.GET("/surahs", surahs.List)

		if cfg.AI != nil {
			ai := api.Group("")
			if cfg.AIRequestsPerMinute > 0 {
				ai.Use(NewRateLimiter(cfg.AIRequestsPerMinute, time.Minute).Middleware())
			}
			ai.GET("/surahs/:number/overview", surahs.Overview)

			assistant := NewAssistantController(cfg.AI, cfg.Reader, prefs)
			ai.POST("/search", assistant.Search)
			ai.POST("/ayahs/:surah/:ayah/tafsir", assistant.Tafsir)
			ai.POST("/ayahs/:surah/:ayah/chat", assistant.Chat)
		}
	}

	// Bookmark endpoints
	if cfg.Bookmarks != nil {
		bookmarks := NewBookmarksController(cfg.Bookmarks, prefs)
		api.GET("/bookmarks", bookmarks.List)
		api.GET("/bookmarks/find", bookmarks.Find)
		api.POST("/bookmarks/toggle", bookmarks.Toggle)
		api.DELETE("/bookmarks/:id", bookmarks.Delete)
		api.PUT("/bookmarks/:id/note", bookmarks.UpdateNote)
	}

	// Preference endpoints
	if cfg.Preferences != nil {
		preferences := NewPreferencesController(cfg.Preferences)
		api.GET("/preferences", preferences.Get)
		api.PUT("/preferences", preferences.Update)
	}

	// AI key management
	if cfg.Credentials != nil && cfg.AI != nil {
		aiKey := NewAIKeyController(cfg.Credentials, cfg.AI)
		api.PUT("/settings/ai-key", aiKey.Save)
		api.DELETE("/settings/ai-key", aiKey.Delete)
		api.GET("/settings/ai-key/status", aiKey.Status)
	}

	// Offline sync status
	if cfg.Offline != nil {
		offlineStatus := NewOfflineController(cfg.Offline, cfg.OfflineHistory, cfg.ResumeScheduler)
		api.GET("/offline/status", offlineStatus.Status)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}

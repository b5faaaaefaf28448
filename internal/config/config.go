package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Content
		AI
		OfflineSync
		Tasks
		Credentials
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Content struct {
		BaseURL         string
		DefaultNarrator string // Audio edition used when no preference is stored
		Timeout         time.Duration
	}
	AI struct {
		APIKey     string // Seeds the credential store when nothing is persisted yet
		Model      string
		BaseURL    string
		Timeout    time.Duration
		MaxRetries int
		RateLimit  int // AI requests per client per minute, 0 disables
	}
	OfflineSync struct {
		Enabled        bool
		InitialDelay   time.Duration
		Cooldown       time.Duration // Wait after a chapter is cached
		Backoff        time.Duration // Wait after a failed chapter before retrying it
		TotalChapters  int
		ResumeSchedule string // Cron format: "*/30 * * * *" = every 30 minutes
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration // Must exceed the longest queue timeout
		CleanupInterval time.Duration
	}
	Credentials struct {
		EncryptionKey string // Base64 key or passphrase for the stored AI key
		KeyFile       string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// loadDotEnv reads a .env file into the process environment if one exists.
// Variables that are already set win over the file.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			log.Printf("Loaded environment from %s", p)
		}
	}
}

func NewConfig() *Config {
	loadDotEnv(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Content API defaults
	v.SetDefault("content_base_url", DefaultContentBaseURL)
	v.SetDefault("content_default_narrator", DefaultNarrator)
	v.SetDefault("content_timeout", "10s")

	// AI provider defaults
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", DefaultAIModel)
	v.SetDefault("gemini_base_url", DefaultAIBaseURL)
	v.SetDefault("gemini_timeout", "60s")
	v.SetDefault("gemini_max_retries", 2)
	v.SetDefault("gemini_rate_limit", 30)

	// Offline sync defaults
	v.SetDefault("offline_sync_enabled", true)
	v.SetDefault("offline_sync_initial_delay", "5s")
	v.SetDefault("offline_sync_cooldown", "3s")
	v.SetDefault("offline_sync_backoff", "10s")
	v.SetDefault("offline_sync_total_chapters", TotalChapters)
	v.SetDefault("offline_sync_resume_schedule", "*/30 * * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "7h")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("credentials_encryption_key", "")
	v.SetDefault("credentials_key_file", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Content: Content{
			BaseURL:         v.GetString("CONTENT_BASE_URL"),
			DefaultNarrator: v.GetString("CONTENT_DEFAULT_NARRATOR"),
			Timeout:         v.GetDuration("CONTENT_TIMEOUT"),
		},
		AI: AI{
			APIKey:     v.GetString("GEMINI_API_KEY"),
			Model:      v.GetString("GEMINI_MODEL"),
			BaseURL:    v.GetString("GEMINI_BASE_URL"),
			Timeout:    v.GetDuration("GEMINI_TIMEOUT"),
			MaxRetries: v.GetInt("GEMINI_MAX_RETRIES"),
			RateLimit:  v.GetInt("GEMINI_RATE_LIMIT"),
		},
		OfflineSync: OfflineSync{
			Enabled:        v.GetBool("OFFLINE_SYNC_ENABLED"),
			InitialDelay:   v.GetDuration("OFFLINE_SYNC_INITIAL_DELAY"),
			Cooldown:       v.GetDuration("OFFLINE_SYNC_COOLDOWN"),
			Backoff:        v.GetDuration("OFFLINE_SYNC_BACKOFF"),
			TotalChapters:  v.GetInt("OFFLINE_SYNC_TOTAL_CHAPTERS"),
			ResumeSchedule: v.GetString("OFFLINE_SYNC_RESUME_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Credentials: Credentials{
			EncryptionKey: v.GetString("CREDENTIALS_ENCRYPTION_KEY"),
			KeyFile:       v.GetString("CREDENTIALS_KEY_FILE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

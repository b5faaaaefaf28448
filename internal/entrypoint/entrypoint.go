package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/aitafsir/internal/config"
	"github.com/mrlokans/aitafsir/internal/database"
	"github.com/mrlokans/aitafsir/internal/database/bookmarks"
	"github.com/mrlokans/aitafsir/internal/database/settings"
	syncrepo "github.com/mrlokans/aitafsir/internal/database/sync"
	"github.com/mrlokans/aitafsir/internal/database/verses"
	"github.com/mrlokans/aitafsir/internal/gemini"
	http_controllers "github.com/mrlokans/aitafsir/internal/http"
	"github.com/mrlokans/aitafsir/internal/offline"
	"github.com/mrlokans/aitafsir/internal/quran"
	"github.com/mrlokans/aitafsir/internal/reader"
	"github.com/mrlokans/aitafsir/internal/scheduler"
	"github.com/mrlokans/aitafsir/internal/settingsstore"
	"github.com/mrlokans/aitafsir/internal/tasks"
	"github.com/mrlokans/aitafsir/internal/tokenstore"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the listener so no new runs start mid-shutdown
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting AI Tafsir v%s", version)

	if cfg.HTTP.Host != "127.0.0.1" && cfg.HTTP.Host != "localhost" && cfg.HTTP.Host != "::1" {
		log.Printf("WARNING: listening on %s. The API has no authentication and is meant for localhost only.", cfg.HTTP.Host)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	settingsRepo := settings.NewRepository(db.DB)
	prefs := settingsstore.New(settingsRepo, settingsstore.Defaults(cfg.Content.DefaultNarrator))
	bookmarkStore := bookmarks.NewStore(settingsRepo)

	content := quran.NewClient(cfg.Content.BaseURL, cfg.Content.Timeout)
	verseRepo := verses.NewRepository(db.DB)
	readerService := reader.NewService(verseRepo, content, prefs)

	progressRepo := syncrepo.NewRepository(db.DB)
	syncer := offline.NewSyncer(content, verseRepo, progressRepo, prefs, offline.Config{
		InitialDelay:  cfg.OfflineSync.InitialDelay,
		Cooldown:      cfg.OfflineSync.Cooldown,
		Backoff:       cfg.OfflineSync.Backoff,
		TotalChapters: cfg.OfflineSync.TotalChapters,
	})

	// AI key: stored credential first, GEMINI_API_KEY only seeds an empty store
	tokens, err := tokenstore.New(settingsRepo, tokenstore.Config{
		EncryptionKey: cfg.Credentials.EncryptionKey,
		KeyFilePath:   cfg.Credentials.KeyFile,
	})
	if err != nil {
		log.Fatalf("Failed to initialize credential store: %v", err)
	}
	provider := gemini.NewProvider(gemini.Config{
		Model:      cfg.AI.Model,
		BaseURL:    cfg.AI.BaseURL,
		Timeout:    cfg.AI.Timeout,
		MaxRetries: cfg.AI.MaxRetries,
	})
	apiKey, err := tokens.SeedAPIKey(cfg.AI.APIKey)
	if err != nil {
		log.Printf("WARNING: Failed to load stored AI key: %v", err)
	}
	if apiKey != "" {
		if err := provider.Set(apiKey); err != nil {
			log.Printf("WARNING: Failed to configure AI provider: %v", err)
		}
	}
	if !provider.Configured() {
		log.Printf("WARNING: AI key is not set. AI features will answer 412 until a key is saved via PUT /api/settings/ai-key or GEMINI_API_KEY.")
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCacheChapterQueue(syncer),
			tasks.NewOfflineSyncQueue(syncer),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var resumeScheduler *scheduler.OfflineResumeScheduler
	if cfg.OfflineSync.Enabled {
		resumeScheduler = scheduler.NewOfflineResumeScheduler(syncer, cfg.OfflineSync.ResumeSchedule)
		if err := resumeScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: Failed to start offline sync: %v", err)
			resumeScheduler = nil
		}
	} else {
		log.Printf("Offline sync disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:    db,
		Reader:      readerService,
		Bookmarks:   bookmarkStore,
		Preferences: prefs,
		AI:          http_controllers.GeminiProvider{Provider: provider},
		Credentials: tokens,
		Offline:     syncer,
		Version:     version,

		OfflineHistory:      progressRepo,
		AIRequestsPerMinute: cfg.AI.RateLimit,
	}
	if resumeScheduler != nil {
		routerCfg.ResumeScheduler = resumeScheduler
	}
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if resumeScheduler != nil {
			resumeScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

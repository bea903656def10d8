package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sightreel/sightreel/internal/api"
	"github.com/sightreel/sightreel/internal/catalog"
	"github.com/sightreel/sightreel/internal/config"
	"github.com/sightreel/sightreel/internal/db"
	"github.com/sightreel/sightreel/internal/queue"
	"github.com/sightreel/sightreel/internal/render"
	"github.com/sightreel/sightreel/internal/services"
	"github.com/sightreel/sightreel/internal/storage"
	"github.com/sightreel/sightreel/internal/worker"
)

func main() {
	log.Println("Starting Sightreel API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("Connected to database")

	// Connect to Redis queue
	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()
	log.Println("Connected to Redis queue")

	// Initialize storage
	stor := storage.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	log.Println("Initialized Supabase storage")

	// Load bundled catalogs (voices, art styles, music)
	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load catalogs: %v", err)
	}

	// Initialize services
	openaiSvc := services.NewOpenAIService(cfg.OpenAIKey)
	ttsSvc := services.NewElevenLabsService(cfg.ElevenLabsKey)
	ffmpegSvc := services.NewFFmpegService(cfg.FFmpegPath, cfg.FFprobePath)

	// Image provider — Stability by default, Gemini as the alternate
	var imageSvc services.ImageService
	switch cfg.ImageProvider {
	case "gemini":
		imageSvc = services.NewGeminiService(cfg.GeminiKey)
		log.Println("Image provider: Gemini")
	default:
		imageSvc = services.NewStabilityService(cfg.StabilityKey, cfg.StabilityEngineID)
		log.Printf("Image provider: Stability (engine: %s)", cfg.StabilityEngineID)
	}

	// Render pipeline — shared by the synchronous API endpoint and the worker
	pipeline := render.New(database, openaiSvc, ttsSvc, imageSvc, ffmpegSvc, stor, cat, render.Config{
		MediaDir:        cfg.MediaDir,
		TTSRequestDelay: cfg.TTSRequestDelay,
		RenderTimeout:   cfg.RenderTimeout,
	})

	// Create API handler
	handler := api.NewHandler(database, q, pipeline, cat)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set — API is unprotected (dev mode)")
	}

	// Start HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start worker if enabled
	var workerCancel context.CancelFunc
	if cfg.WorkerEnabled {
		log.Println("Worker enabled, starting background processing...")

		w := worker.New(q, pipeline)

		var workerCtx context.Context
		workerCtx, workerCancel = context.WithCancel(context.Background())
		go w.Start(workerCtx, cfg.MaxConcurrentJobs)
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Shutdown worker
	if workerCancel != nil {
		workerCancel()
	}

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

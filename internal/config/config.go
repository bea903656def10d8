package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort            string
	WorkerEnabled      bool
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// OpenAI (script generation + visual prompt rewriting)
	OpenAIKey string

	// ElevenLabs (narration TTS)
	ElevenLabsKey string

	// Image generation — Stability preferred, Gemini as the alternate provider
	ImageProvider     string // "stability" or "gemini"
	StabilityKey      string
	StabilityEngineID string
	GeminiKey         string

	// Media processing
	FFmpegPath  string
	FFprobePath string
	MediaDir    string // Working directories are created under MediaDir/<job id>

	// Render pipeline
	TTSRequestDelay time.Duration // Pause after every narration TTS request (rate-limit throttle)
	RenderTimeout   time.Duration // Overall deadline for one render run

	// Worker
	MaxConcurrentJobs int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:               getEnv("API_PORT", "8080"),
		WorkerEnabled:         getEnvBool("WORKER_ENABLED", true),
		BackendAPIKey:         getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins:    getEnv("CORS_ALLOWED_ORIGINS", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "videos"),
		OpenAIKey:             getEnv("OPENAI_API_KEY", ""),
		ElevenLabsKey:         getEnv("ELEVENLABS_API_KEY", ""),
		ImageProvider:         getEnv("IMAGE_PROVIDER", "stability"),
		StabilityKey:          getEnv("STABILITY_API_KEY", ""),
		StabilityEngineID:     getEnv("STABILITY_ENGINE_ID", "sdxl-1.0"),
		GeminiKey:             getEnv("GEMINI_API_KEY", ""),
		FFmpegPath:            getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:           getEnv("FFPROBE_PATH", "ffprobe"),
		MediaDir:              getEnv("MEDIA_DIR", "media"),
		TTSRequestDelay:       getEnvDuration("TTS_REQUEST_DELAY", 1500*time.Millisecond),
		RenderTimeout:         getEnvDuration("RENDER_TIMEOUT", 30*time.Minute),
		MaxConcurrentJobs:     getEnvInt("MAX_CONCURRENT_JOBS", 2),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	if cfg.ElevenLabsKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY is required")
	}

	switch cfg.ImageProvider {
	case "stability":
		if cfg.StabilityKey == "" {
			return nil, fmt.Errorf("STABILITY_API_KEY is required when IMAGE_PROVIDER=stability")
		}
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when IMAGE_PROVIDER=gemini")
		}
	default:
		return nil, fmt.Errorf("IMAGE_PROVIDER must be \"stability\" or \"gemini\", got %q", cfg.ImageProvider)
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

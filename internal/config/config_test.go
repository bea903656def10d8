package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ELEVENLABS_API_KEY", "el-test")
	t.Setenv("STABILITY_API_KEY", "stability-test")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %s, want 8080", cfg.APIPort)
	}
	if !cfg.WorkerEnabled {
		t.Error("worker should default to enabled")
	}
	if cfg.ImageProvider != "stability" {
		t.Errorf("ImageProvider = %s, want stability", cfg.ImageProvider)
	}
	if cfg.SupabaseStorageBucket != "videos" {
		t.Errorf("bucket = %s, want videos", cfg.SupabaseStorageBucket)
	}
	if cfg.TTSRequestDelay != 1500*time.Millisecond {
		t.Errorf("TTSRequestDelay = %v, want 1.5s", cfg.TTSRequestDelay)
	}
	if cfg.RenderTimeout != 30*time.Minute {
		t.Errorf("RenderTimeout = %v, want 30m", cfg.RenderTimeout)
	}
	if cfg.MaxConcurrentJobs != 2 {
		t.Errorf("MaxConcurrentJobs = %d, want 2", cfg.MaxConcurrentJobs)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	cases := []string{
		"DATABASE_URL",
		"OPENAI_API_KEY",
		"ELEVENLABS_API_KEY",
		"SUPABASE_URL",
	}

	for _, missing := range cases {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")

			if _, err := Load(); err == nil {
				t.Errorf("expected error when %s is empty", missing)
			}
		})
	}
}

func TestLoadImageProviderValidation(t *testing.T) {
	setRequiredEnv(t)

	// Gemini provider requires its key.
	t.Setenv("IMAGE_PROVIDER", "gemini")
	if _, err := Load(); err == nil {
		t.Error("expected error for gemini provider without GEMINI_API_KEY")
	}

	t.Setenv("GEMINI_API_KEY", "gm-test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ImageProvider != "gemini" {
		t.Errorf("ImageProvider = %s, want gemini", cfg.ImageProvider)
	}

	// Unknown provider is rejected.
	t.Setenv("IMAGE_PROVIDER", "dalle")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown image provider")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	if got := getEnv("TEST_STR", "fallback"); got != "value" {
		t.Errorf("getEnv = %q", got)
	}
	if got := getEnv("TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnv fallback = %q", got)
	}

	t.Setenv("TEST_BOOL", "false")
	if getEnvBool("TEST_BOOL", true) {
		t.Error("getEnvBool should parse false")
	}
	t.Setenv("TEST_BOOL", "not-a-bool")
	if !getEnvBool("TEST_BOOL", true) {
		t.Error("getEnvBool should fall back on parse failure")
	}

	t.Setenv("TEST_INT", "7")
	if got := getEnvInt("TEST_INT", 1); got != 7 {
		t.Errorf("getEnvInt = %d", got)
	}

	t.Setenv("TEST_DUR", "45s")
	if got := getEnvDuration("TEST_DUR", time.Minute); got != 45*time.Second {
		t.Errorf("getEnvDuration = %v", got)
	}
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestTTS points an ElevenLabsService at a test server and captures
// backoff sleeps instead of actually waiting.
func newTestTTS(serverURL string, sleeps *[]time.Duration) *ElevenLabsService {
	svc := NewElevenLabsService("test-key")
	svc.baseURL = serverURL
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return svc
}

func TestSynthesizeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/voice-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing xi-api-key header")
		}

		var body elevenLabsRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body.Text != "hello world" {
			t.Errorf("text = %q, want %q", body.Text, "hello world")
		}
		if body.VoiceSettings.Stability != 0.5 || body.VoiceSettings.SimilarityBoost != 0.8 || body.VoiceSettings.Speed != 1.1 {
			t.Errorf("unexpected voice settings: %+v", body.VoiceSettings)
		}

		w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	svc := newTestTTS(server.URL, &sleeps)

	audio, err := svc.Synthesize(context.Background(), "hello world", "voice-1")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "audio-bytes" {
		t.Errorf("audio = %q", audio)
	}
	if len(sleeps) != 0 {
		t.Errorf("expected no backoff sleeps, got %v", sleeps)
	}
}

func TestSynthesizeRateLimitBackoff(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	svc := newTestTTS(server.URL, &sleeps)

	audio, err := svc.Synthesize(context.Background(), "text", "voice-1")
	if err != nil {
		t.Fatalf("Synthesize failed after retries: %v", err)
	}
	if string(audio) != "audio" {
		t.Errorf("audio = %q", audio)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestSynthesizeTransientBackoff(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	svc := newTestTTS(server.URL, &sleeps)

	if _, err := svc.Synthesize(context.Background(), "text", "voice-1"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestSynthesizeRetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var sleeps []time.Duration
	svc := newTestTTS(server.URL, &sleeps)

	if _, err := svc.Synthesize(context.Background(), "text", "voice-1"); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// 3 retries = 3 sleeps; the 4th failure propagates without sleeping.
	if len(sleeps) != 3 {
		t.Errorf("expected 3 backoff sleeps, got %d (%v)", len(sleeps), sleeps)
	}
}

func TestSynthesizeRequiresVoiceID(t *testing.T) {
	svc := NewElevenLabsService("key")
	if _, err := svc.Synthesize(context.Background(), "text", ""); err == nil {
		t.Fatal("expected error for missing voice id")
	}
}

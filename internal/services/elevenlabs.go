package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ---------------------------------------------------------------------------
// ElevenLabs Text-to-Speech Service
// Uses the ElevenLabs REST API to convert text into speech audio.
// The response body is the raw audio file; 429 means rate limiting.
// ---------------------------------------------------------------------------

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io"

	// Retry budget shared by both backoff series. The 4th failure of a
	// request propagates to the caller.
	ttsMaxRetries = 3

	// 429 responses back off at 2s, 4s, 8s; other failures (network
	// errors and non-2xx statuses) at 1s, 2s, 4s.
	rateLimitBackoffBase = 2 * time.Second
	transientBackoffBase = 1 * time.Second
)

// ElevenLabsService handles text-to-speech via the ElevenLabs API.
type ElevenLabsService struct {
	apiKey  string
	baseURL string
	client  *http.Client

	// sleep waits for the backoff delay; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Ensure ElevenLabsService implements TTSService at compile time.
var _ TTSService = (*ElevenLabsService)(nil)

func NewElevenLabsService(apiKey string) *ElevenLabsService {
	return &ElevenLabsService{
		apiKey:  apiKey,
		baseURL: elevenLabsBaseURL,
		client:  &http.Client{Timeout: 90 * time.Second},
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed"`
}

// Synthesize converts text to speech, retrying rate limits with the 2s
// backoff series and other transient failures with the 1s series.
func (s *ElevenLabsService) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if voiceID == "" {
		return nil, fmt.Errorf("voice ID is required for TTS generation")
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		audio, retryable, rateLimited, err := s.synthesizeOnce(ctx, text, voiceID)
		if err == nil {
			return audio, nil
		}
		lastErr = err

		if !retryable || attempt >= ttsMaxRetries {
			return nil, lastErr
		}

		base := transientBackoffBase
		if rateLimited {
			base = rateLimitBackoffBase
		}
		delay := base << attempt // 2s/4s/8s for 429, 1s/2s/4s otherwise

		log.Printf("[ElevenLabs] Request failed (rate_limited=%v), retrying in %v (attempt %d/%d): %v",
			rateLimited, delay, attempt+1, ttsMaxRetries, err)

		if err := s.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("tts retry cancelled: %w", err)
		}
	}
}

// synthesizeOnce performs a single TTS request. retryable reports whether
// the failure is worth another attempt; rateLimited selects the backoff
// series.
func (s *ElevenLabsService) synthesizeOnce(ctx context.Context, text, voiceID string) (audio []byte, retryable, rateLimited bool, err error) {
	reqBody := elevenLabsRequest{
		Text: text,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.8,
			Speed:           1.1,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, false, false, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, voiceID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, false, false, fmt.Errorf("failed to create TTS request: %w", err)
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		// Network-level failures use the transient backoff series,
		// unless the caller's context is already gone.
		if ctx.Err() != nil {
			return nil, false, false, fmt.Errorf("TTS request cancelled: %w", err)
		}
		return nil, true, false, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("TTS failed: %d %s - %s", resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, true, true, err
		}
		return nil, true, false, err
	}

	audio, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, false, fmt.Errorf("failed to read TTS audio response: %w", err)
	}

	if len(audio) == 0 {
		return nil, true, false, fmt.Errorf("TTS returned empty audio")
	}

	return audio, false, false, nil
}

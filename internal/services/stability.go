package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sightreel/sightreel/internal/models"
)

// ---------------------------------------------------------------------------
// Stability AI Text-to-Image Service
// POSTs a text prompt plus target dimensions and sampling parameters;
// the response carries base64-encoded image artifacts.
// ---------------------------------------------------------------------------

const (
	stabilityBaseURL         = "https://api.stability.ai"
	stabilityDefaultEngineID = "sdxl-1.0"
)

type StabilityService struct {
	apiKey   string
	engineID string
	baseURL  string
	client   *http.Client
}

// Ensure StabilityService implements ImageService at compile time.
var _ ImageService = (*StabilityService)(nil)

func NewStabilityService(apiKey, engineID string) *StabilityService {
	if engineID == "" {
		engineID = stabilityDefaultEngineID
	}
	return &StabilityService{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  stabilityBaseURL,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

type stabilityTextPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	Samples     int                   `json:"samples"`
	CfgScale    int                   `json:"cfg_scale"`
	Steps       int                   `json:"steps"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// GenerateImage requests one image at the resolution mapped from the
// aspect ratio and decodes the first returned artifact.
func (s *StabilityService) GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) ([]byte, error) {
	size := generationSizeForRatio(ratio)

	reqBody := stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: prompt, Weight: 1}},
		Width:       size.Width,
		Height:      size.Height,
		Samples:     1,
		CfgScale:    7,
		Steps:       30,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Stability request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", s.baseURL, s.engineID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create Stability request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	log.Printf("[Stability] Generating image (engine=%s, size=%dx%d, promptLen=%d)",
		s.engineID, size.Width, size.Height, len(prompt))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Stability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Stability API error (%d): %s", resp.StatusCode, string(body))
	}

	var payload stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse Stability response: %w", err)
	}

	if len(payload.Artifacts) == 0 || payload.Artifacts[0].Base64 == "" {
		return nil, fmt.Errorf("Stability API returned no image artifacts")
	}

	imageData, err := base64.StdEncoding.DecodeString(payload.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Stability image artifact: %w", err)
	}

	log.Printf("[Stability] Image generated (%d bytes)", len(imageData))

	return imageData, nil
}

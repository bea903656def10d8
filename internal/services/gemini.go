package services

import (
	"context"
	"fmt"
	"log"

	"github.com/sightreel/sightreel/internal/models"
	"google.golang.org/genai"
)

// ---------------------------------------------------------------------------
// Gemini Image Generation Service
// Alternate image provider, selected with IMAGE_PROVIDER=gemini. Uses the
// Google Gen AI SDK with an image response modality.
// ---------------------------------------------------------------------------

const geminiImageModel = "gemini-2.5-flash-image"

type GeminiService struct {
	apiKey string
	model  string
}

// Ensure GeminiService implements ImageService at compile time.
var _ ImageService = (*GeminiService)(nil)

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey: apiKey,
		model:  geminiImageModel,
	}
}

// GenerateImage generates one image via Gemini. The aspect ratio maps
// directly onto the SDK's image config; Gemini picks the resolution.
func (s *GeminiService) GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) ([]byte, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(ratio),
		},
	}

	log.Printf("[Gemini] Generating image (model=%s, ratio=%s, promptLen=%d)", s.model, ratio, len(prompt))

	resp, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini image generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			log.Printf("[Gemini] Image generated (%d bytes, mime=%s)",
				len(part.InlineData.Data), part.InlineData.MIMEType)
			return part.InlineData.Data, nil
		}
	}

	return nil, fmt.Errorf("gemini response contained no image data")
}

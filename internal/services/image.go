package services

import (
	"context"

	"github.com/sightreel/sightreel/internal/models"
)

// ---------------------------------------------------------------------------
// ImageService — common interface for image-generation providers
// Stability is the primary provider; Gemini is the configurable alternate.
// The pipeline uses whichever is wired without knowing the provider.
// ---------------------------------------------------------------------------

// ImageService generates one image for a text prompt, sized to the
// requested aspect ratio. The returned bytes are the encoded image.
type ImageService interface {
	GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) ([]byte, error)
}

// imageSize is a generation resolution in pixels.
type imageSize struct {
	Width  int
	Height int
}

// generationSizes maps aspect ratios to the resolutions requested from
// the image provider. These are generation sizes, not render sizes —
// the compositor scales and pads to the final video resolution.
var generationSizes = map[models.AspectRatio]imageSize{
	models.AspectRatio16x9: {Width: 1344, Height: 768},
	models.AspectRatio9x16: {Width: 768, Height: 1344},
	models.AspectRatio1x1:  {Width: 1024, Height: 1024},
}

func generationSizeForRatio(ratio models.AspectRatio) imageSize {
	if size, ok := generationSizes[ratio]; ok {
		return size
	}
	return imageSize{Width: 1024, Height: 1024}
}

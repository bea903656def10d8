package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sightreel/sightreel/internal/models"
)

// generateSceneImages produces one image per scene, concurrently. Each
// scene's narration is first rewritten into a literal visual prompt,
// then combined with the art style and orientation rules before hitting
// the image provider.
func (p *Pipeline) generateSceneImages(ctx context.Context, scenes []scene, job *models.VideoJob, videoDir string) ([]string, error) {
	imagePaths := make([]string, len(scenes))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range scenes {
		g.Go(func() error {
			visualPrompt, err := p.scripts.RewriteVisualPrompt(gctx, s.Text)
			if err != nil {
				return fmt.Errorf("visual prompt rewrite failed for scene %d: %w", i, err)
			}
			log.Printf("[Render] Scene %d visual prompt: %s", i, truncateText(visualPrompt, 80))

			prompt := p.composeImagePrompt(visualPrompt, job.ArtStyle, job.AspectRatio)

			data, err := p.images.GenerateImage(gctx, prompt, job.AspectRatio)
			if err != nil {
				return fmt.Errorf("image generation failed for scene %d: %w", i, err)
			}

			imagePath := filepath.Join(videoDir, fmt.Sprintf("scene_%d.jpg", i))
			if err := os.WriteFile(imagePath, data, 0644); err != nil {
				return fmt.Errorf("failed to write scene %d image: %w", i, err)
			}

			imagePaths[i] = imagePath
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imagePaths, nil
}

// composeImagePrompt assembles the final image prompt: art style, the
// rewritten scene description, orientation rules, and a no-text rule
// (diffusion models love to hallucinate captions).
func (p *Pipeline) composeImagePrompt(visualPrompt, artStyle string, ratio models.AspectRatio) string {
	var orientation string
	switch ratio {
	case models.AspectRatio9x16:
		orientation = "PORTRAIT ORIENTATION ONLY. A tall vertical composition designed for 9:16. No horizontal landscape framing."
	case models.AspectRatio16x9:
		orientation = "LANDSCAPE ORIENTATION ONLY. A wide cinematic composition designed for 16:9."
	default:
		orientation = "SQUARE ORIENTATION ONLY. A centered and balanced 1:1 framing."
	}

	return strings.Join([]string{
		p.catalog.StylePrompt(artStyle) + ".",
		"Scene: " + visualPrompt + ".",
		orientation,
		"No words, no letters, no text, no captions.",
		"Ultra detailed, high-quality professional artwork.",
	}, "\n")
}

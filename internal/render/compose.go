package render

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/sightreel/sightreel/internal/models"
	"github.com/sightreel/sightreel/internal/services"
)

const (
	// Pacing target: scale scene durations toward a ~50 second video,
	// but never by more than ±10% so narration is not cut off.
	pacingTargetSeconds = 50.0
	minScaleFactor      = 0.9
	maxScaleFactor      = 1.1

	// Floor for a scene's effective duration so motion effects stay visible.
	minEffectDuration = 3.0
)

// pacingScaleFactor computes the duration multiplier for a video of the
// given total narration length, clamped to the ±10% band.
func pacingScaleFactor(totalDuration float64) float64 {
	if totalDuration <= 0 {
		return maxScaleFactor
	}
	factor := pacingTargetSeconds / totalDuration
	if factor < minScaleFactor {
		return minScaleFactor
	}
	if factor > maxScaleFactor {
		return maxScaleFactor
	}
	return factor
}

// composeScenes renders each scene's still image plus narration audio
// into an animated clip. Effects cycle through the fixed order; a scene
// whose effect render fails is retried once with the plain zoom-in
// fallback before the whole stage gives up.
func (p *Pipeline) composeScenes(ctx context.Context, imagePaths, audioPaths []string, ratio models.AspectRatio, videoDir string) ([]string, error) {
	if len(imagePaths) != len(audioPaths) {
		return nil, fmt.Errorf("scene count mismatch: %d images, %d audio clips", len(imagePaths), len(audioPaths))
	}

	durations := make([]float64, len(audioPaths))
	var totalDuration float64
	for i, audioPath := range audioPaths {
		d, err := p.media.AudioDuration(ctx, audioPath)
		if err != nil {
			return nil, fmt.Errorf("failed to probe scene %d duration: %w", i, err)
		}
		durations[i] = d
		totalDuration += d
	}

	scaleFactor := pacingScaleFactor(totalDuration)
	log.Printf("[Render] Total narration %.2fs, pacing scale factor %.3f", totalDuration, scaleFactor)

	scenePaths := make([]string, 0, len(imagePaths))
	for i := range imagePaths {
		outPath := filepath.Join(videoDir, fmt.Sprintf("scene_%d.mp4", i))
		effect := services.EffectForScene(i)

		effectiveDuration := durations[i] * scaleFactor
		if effectiveDuration < minEffectDuration {
			effectiveDuration = minEffectDuration
		}

		log.Printf("[Render] Scene %d: effect=%s, duration=%.2fs, effective=%.2fs",
			i, effect, durations[i], effectiveDuration)

		err := p.media.RenderScene(ctx, imagePaths[i], audioPaths[i], outPath, effect, durations[i], ratio)
		if err != nil {
			log.Printf("[Render] Scene %d: effect %s failed, retrying with zoomIn fallback: %v", i, effect, err)
			if err := p.media.RenderScene(ctx, imagePaths[i], audioPaths[i], outPath, services.EffectZoomIn, durations[i], ratio); err != nil {
				return nil, fmt.Errorf("scene %d render failed: %w", i, err)
			}
		}

		scenePaths = append(scenePaths, outPath)
	}

	return scenePaths, nil
}

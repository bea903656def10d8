package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// synthesizeNarration produces one narration audio file per scene,
// sequentially. Sequential order plus the configured delay between
// scenes keeps the TTS provider's rate limiter happy; the per-request
// retries live in the TTS service itself.
func (p *Pipeline) synthesizeNarration(ctx context.Context, scenes []scene, voiceID, videoDir string) ([]string, error) {
	audioPaths := make([]string, 0, len(scenes))

	for i, s := range scenes {
		clipPath := filepath.Join(videoDir, fmt.Sprintf("clip_%d.mp3", i))

		if err := p.synthesizeSceneAudio(ctx, s.Text, voiceID, clipPath); err != nil {
			return nil, fmt.Errorf("TTS failed for scene %d: %w", i, err)
		}
		audioPaths = append(audioPaths, clipPath)
		log.Printf("[Render] Scene %d narration synthesized", i)

		if p.ttsRequestDelay > 0 {
			if err := p.sleep(ctx, p.ttsRequestDelay); err != nil {
				return nil, fmt.Errorf("narration synthesis cancelled: %w", err)
			}
		}
	}

	return audioPaths, nil
}

// synthesizeSceneAudio builds a scene's narration sentence by sentence,
// appending ". " to each piece so the voice pauses naturally, then
// concatenates the pieces into one clip.
func (p *Pipeline) synthesizeSceneAudio(ctx context.Context, text, voiceID, outputPath string) error {
	pieces := splitPauseSentences(text)
	if len(pieces) == 0 {
		return fmt.Errorf("scene has no narratable text")
	}

	piecePaths := make([]string, 0, len(pieces))
	defer func() {
		for _, path := range piecePaths {
			os.Remove(path)
		}
	}()

	for i, piece := range pieces {
		audio, err := p.tts.Synthesize(ctx, piece+". ", voiceID)
		if err != nil {
			return err
		}

		piecePath := fmt.Sprintf("%s_part_%d.mp3", outputPath[:len(outputPath)-len(filepath.Ext(outputPath))], i)
		if err := os.WriteFile(piecePath, audio, 0644); err != nil {
			return fmt.Errorf("failed to write sentence audio: %w", err)
		}
		piecePaths = append(piecePaths, piecePath)
	}

	if err := p.media.ConcatFiles(ctx, piecePaths, outputPath); err != nil {
		return fmt.Errorf("failed to join sentence audio: %w", err)
	}
	return nil
}

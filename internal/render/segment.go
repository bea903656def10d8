package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// minSceneDuration is the floor for one scene's narration. Sentences
// accumulate into a scene until its spoken duration crosses this.
const minSceneDuration = 4.5

// sentencePattern matches one sentence including its terminal
// punctuation run.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// pauseSplitPattern splits text on punctuation runs, used when
// re-synthesizing a scene sentence-by-sentence with pauses.
var pauseSplitPattern = regexp.MustCompile(`[.!?]+`)

// scene is one visual unit of the video: a group of consecutive
// sentences long enough to carry a single image.
type scene struct {
	Text     string
	Duration float64
}

// normalizeNarration collapses a multi-line script into a single line of
// narration, dropping blank lines and per-line whitespace.
func normalizeNarration(script string) string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

// splitSentences breaks narration into sentences, each keeping its
// terminal punctuation. Text with no terminal punctuation at all comes
// back as a single sentence.
func splitSentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}
	return matches
}

// splitPauseSentences breaks scene text on punctuation runs, discarding
// the punctuation. Each piece is later synthesized with a trailing
// ". " so the voice pauses between sentences.
func splitPauseSentences(text string) []string {
	var out []string
	for _, piece := range pauseSplitPattern.Split(text, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// groupScenes accumulates sentences into scenes of at least
// minSceneDuration seconds of speech. Each sentence is synthesized once
// to probe its spoken duration; the probe audio is discarded. The final
// scene may come in under the floor when the script runs out.
func (p *Pipeline) groupScenes(ctx context.Context, sentences []string, voiceID, videoDir string) ([]scene, error) {
	var scenes []scene
	var group []string
	var groupDuration float64

	for i, sentence := range sentences {
		probePath := filepath.Join(videoDir, fmt.Sprintf("temp_%d.mp3", i))

		audio, err := p.tts.Synthesize(ctx, sentence, voiceID)
		if err != nil {
			return nil, fmt.Errorf("probe TTS failed for sentence %d: %w", i, err)
		}
		if err := os.WriteFile(probePath, audio, 0644); err != nil {
			return nil, fmt.Errorf("failed to write probe audio: %w", err)
		}

		duration, err := p.media.AudioDuration(ctx, probePath)
		os.Remove(probePath)
		if err != nil {
			return nil, fmt.Errorf("failed to probe sentence duration: %w", err)
		}

		group = append(group, sentence)
		groupDuration += duration

		if groupDuration >= minSceneDuration || i == len(sentences)-1 {
			scenes = append(scenes, scene{
				Text:     strings.Join(group, " "),
				Duration: groupDuration,
			})
			group = nil
			groupDuration = 0
		}
	}

	log.Printf("[Render] Grouped %d sentences into %d scenes", len(sentences), len(scenes))
	for i, s := range scenes {
		log.Printf("[Render] Scene %d: %.2fs - %q", i, s.Duration, truncateText(s.Text, 50))
	}

	return scenes, nil
}

func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sightreel/sightreel/internal/models"
)

// ---------------------------------------------------------------------------
// Motion effect types — each scene gets one, cycling through the list so no
// two adjacent scenes move the same way.
// ---------------------------------------------------------------------------

// ClipEffect defines the type of Ken Burns / motion effect applied to a still image.
type ClipEffect string

const (
	EffectZoomIn      ClipEffect = "zoomIn"      // Push in toward center, up to 1.2x
	EffectZoomOut     ClipEffect = "zoomOut"     // Starts zoomed, pulls back to 0.9x
	EffectPanLeft     ClipEffect = "panLeft"     // Crop offset toward the right edge
	EffectPanRight    ClipEffect = "panRight"    // Crop anchored at the left edge
	EffectZoomInSlow  ClipEffect = "zoomInSlow"  // Gentle push in, up to 1.1x
	EffectZoomOutSlow ClipEffect = "zoomOutSlow" // Gentle pull back to 0.95x
)

// sceneEffects is the cycling order of effects across a video's scenes.
var sceneEffects = []ClipEffect{
	EffectZoomIn,
	EffectZoomOut,
	EffectPanLeft,
	EffectPanRight,
	EffectZoomInSlow,
	EffectZoomOutSlow,
}

// EffectForScene returns the motion effect for scene index i.
func EffectForScene(i int) ClipEffect {
	return sceneEffects[i%len(sceneEffects)]
}

// Output rendering constants. Every scene is rendered at 25fps with a
// floor of 75 frames (3 seconds) so the zoompan motion stays visible
// even for very short scenes.
const (
	videoFPS        = 25
	minEffectFrames = 75
)

// renderSizes maps aspect ratios to final video resolutions. These are
// smaller than the image generation sizes; ffmpeg scales and pads.
var renderSizes = map[models.AspectRatio]imageSize{
	models.AspectRatio16x9: {Width: 1280, Height: 720},
	models.AspectRatio9x16: {Width: 720, Height: 1280},
	models.AspectRatio1x1:  {Width: 1080, Height: 1080},
}

func renderSizeForRatio(ratio models.AspectRatio) imageSize {
	if size, ok := renderSizes[ratio]; ok {
		return size
	}
	return imageSize{Width: 1280, Height: 720}
}

// buildSceneFilter constructs the -vf chain for one scene: a zoompan
// motion effect followed by scale + pad to the target resolution and a
// yuv420p pixel format for broad player compatibility.
//
// The pan effects use frame-count-based crop offsets with z=1; panLeft
// anchors the crop toward the right edge and panRight at the left edge.
func buildSceneFilter(effect ClipEffect, durationSec float64, ratio models.AspectRatio) string {
	size := renderSizeForRatio(ratio)
	videoSize := fmt.Sprintf("%dx%d", size.Width, size.Height)

	totalFrames := int(durationSec * videoFPS)
	minFrames := totalFrames
	if minFrames < minEffectFrames {
		minFrames = minEffectFrames
	}

	tail := fmt.Sprintf(
		":d=%d:s=%s,scale=%s:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,format=yuv420p",
		minFrames, videoSize, videoSize, size.Width, size.Height,
	)

	switch effect {
	case EffectZoomIn:
		return "zoompan=z='min(zoom+0.002,1.2)'" + tail
	case EffectZoomOut:
		return "zoompan=z='max(zoom-0.002,0.9)'" + tail
	case EffectZoomInSlow:
		return "zoompan=z='min(zoom+0.001,1.1)'" + tail
	case EffectZoomOutSlow:
		return "zoompan=z='max(zoom-0.001,0.95)'" + tail
	case EffectPanLeft:
		return fmt.Sprintf("zoompan=x='iw-(iw/zoom)*%d/75':z=1", minFrames) + tail
	case EffectPanRight:
		return "zoompan=x='0':z=1" + tail
	default:
		return "zoompan=z='min(zoom+0.002,1.2)'" + tail
	}
}

// ---------------------------------------------------------------------------
// FFmpegService
// ---------------------------------------------------------------------------

// FFmpegService shells out to ffmpeg and ffprobe for all media work:
// probing audio durations, rendering animated scene clips, concatenating
// clips, and mixing background music under the narration.
type FFmpegService struct {
	ffmpegPath  string
	ffprobePath string
}

func NewFFmpegService(ffmpegPath, ffprobePath string) *FFmpegService {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegService{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

// run executes ffmpeg with the given args, capturing stderr so failures
// carry the tool's own diagnostics.
func (s *FFmpegService) run(ctx context.Context, args []string) error {
	log.Printf("[FFmpeg] %s %s", s.ffmpegPath, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLines(stderr.String(), 5))
	}
	return nil
}

// lastLines returns the trailing n lines of s. FFmpeg puts the actual
// error at the end of a long progress log.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// AudioDuration returns the duration of an audio file in seconds.
func (s *FFmpegService) AudioDuration(ctx context.Context, audioPath string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}

	cmd := exec.CommandContext(ctx, s.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", audioPath, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}

	return duration, nil
}

// RenderScene turns a still image plus narration audio into an animated
// video clip. The image loops for the audio's duration while the motion
// filter plays; -t trims the output to the narration length.
func (s *FFmpegService) RenderScene(ctx context.Context, imagePath, audioPath, outputPath string, effect ClipEffect, durationSec float64, ratio models.AspectRatio) error {
	filter := buildSceneFilter(effect, durationSec, ratio)

	log.Printf("[FFmpeg] Rendering scene (effect=%s, duration=%.2fs, ratio=%s)", effect, durationSec, ratio)

	args := []string{
		"-loop", "1",
		"-i", imagePath,
		"-i", audioPath,
		"-vf", filter,
		"-t", fmt.Sprintf("%.3f", durationSec),
		"-y",
		outputPath,
	}

	if err := s.run(ctx, args); err != nil {
		return fmt.Errorf("scene render failed (effect=%s): %w", effect, err)
	}
	return nil
}

// ConcatFiles joins media files losslessly using the concat demuxer.
// The list file is written next to the output and removed afterwards.
func (s *FFmpegService) ConcatFiles(ctx context.Context, inputPaths []string, outputPath string) error {
	if len(inputPaths) == 0 {
		return fmt.Errorf("no files to concatenate")
	}

	listPath := outputPath + ".txt"
	var list strings.Builder
	for _, p := range inputPaths {
		fmt.Fprintf(&list, "file '%s'\n", filepath.ToSlash(p))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	}

	if err := s.run(ctx, args); err != nil {
		return fmt.Errorf("concat failed: %w", err)
	}
	return nil
}

// MixMusic layers background music under the narration track. The voice
// stays dominant at 1.5x gain with music at 0.35x; amix ends with the
// narration (duration=first) and fades the music out over 2 seconds.
// The video stream is copied untouched.
func (s *FFmpegService) MixMusic(ctx context.Context, videoPath, musicPath, outputPath string) error {
	filterComplex := "[0:a]volume=1.5[voice];[1:a]volume=0.35[music];[voice][music]amix=inputs=2:duration=first:dropout_transition=2[aout]"

	log.Printf("[FFmpeg] Mixing background music from %s", musicPath)

	args := []string{
		"-i", videoPath,
		"-i", musicPath,
		"-filter_complex", filterComplex,
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", "copy",
		"-y",
		outputPath,
	}

	if err := s.run(ctx, args); err != nil {
		return fmt.Errorf("music mix failed: %w", err)
	}
	return nil
}

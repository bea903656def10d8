package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sightreel/sightreel/internal/catalog"
	"github.com/sightreel/sightreel/internal/models"
	"github.com/sightreel/sightreel/internal/services"
)

var (
	// ErrRenderInFlight is returned when a render is requested for a video
	// that this process is already rendering.
	ErrRenderInFlight = errors.New("render already in progress for this video")

	// ErrMissingMusicTrack is returned when a job reaches the mixing stage
	// without a music track URL.
	ErrMissingMusicTrack = errors.New("no music track URL provided")
)

// JobStore is the slice of the database layer the pipeline needs.
type JobStore interface {
	GetVideo(ctx context.Context, id uuid.UUID) (*models.VideoJob, error)
	UpdateVideoStatus(ctx context.Context, id uuid.UUID, status models.VideoStatus) error
	UpdateVideoScript(ctx context.Context, id uuid.UUID, script string) error
	MarkVideoCompleted(ctx context.Context, id uuid.UUID, videoURL string) error
	MarkVideoFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// ScriptGenerator produces narration scripts and visual image prompts.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, topic string, length models.VideoLength) (string, error)
	RewriteVisualPrompt(ctx context.Context, narration string) (string, error)
}

// Media covers the ffmpeg work the pipeline drives.
type Media interface {
	AudioDuration(ctx context.Context, audioPath string) (float64, error)
	ConcatFiles(ctx context.Context, inputPaths []string, outputPath string) error
	RenderScene(ctx context.Context, imagePath, audioPath, outputPath string, effect services.ClipEffect, durationSec float64, ratio models.AspectRatio) error
	MixMusic(ctx context.Context, videoPath, musicPath, outputPath string) error
}

// Uploader pushes the final video to object storage.
type Uploader interface {
	UploadFile(ctx context.Context, storagePath, localPath, contentType string) error
	GetPublicURL(path string) string
}

// Pipeline runs the full topic-to-video render: script, scene
// segmentation, narration TTS, image generation, animated scene clips,
// concatenation, music mixing, and upload.
type Pipeline struct {
	store   JobStore
	scripts ScriptGenerator
	tts     services.TTSService
	images  services.ImageService
	media   Media
	uploads Uploader
	catalog *catalog.Catalog

	mediaDir        string
	ttsRequestDelay time.Duration
	renderTimeout   time.Duration

	// httpClient downloads the job's background music track.
	httpClient *http.Client

	// sleep paces sequential TTS requests; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error

	// active guards against concurrent renders of the same video within
	// this process. Keyed by video id.
	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

type Config struct {
	MediaDir        string
	TTSRequestDelay time.Duration
	RenderTimeout   time.Duration
}

func New(store JobStore, scripts ScriptGenerator, tts services.TTSService, images services.ImageService, media Media, uploads Uploader, cat *catalog.Catalog, cfg Config) *Pipeline {
	if cfg.MediaDir == "" {
		cfg.MediaDir = "media"
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 30 * time.Minute
	}
	return &Pipeline{
		store:           store,
		scripts:         scripts,
		tts:             tts,
		images:          images,
		media:           media,
		uploads:         uploads,
		catalog:         cat,
		mediaDir:        cfg.MediaDir,
		ttsRequestDelay: cfg.TTSRequestDelay,
		renderTimeout:   cfg.RenderTimeout,
		httpClient:      &http.Client{Timeout: 120 * time.Second},
		sleep:           sleepContext,
		active:          make(map[uuid.UUID]struct{}),
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

// Render runs the full pipeline for one video and returns the public URL
// of the uploaded result. Failures after the job is loaded are recorded
// on the job row; the returned error carries the same cause.
func (p *Pipeline) Render(ctx context.Context, id uuid.UUID) (string, error) {
	if !p.tryAcquire(id) {
		return "", ErrRenderInFlight
	}
	defer p.release(id)

	ctx, cancel := context.WithTimeout(ctx, p.renderTimeout)
	defer cancel()

	job, err := p.store.GetVideo(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := p.run(ctx, job)
	if err != nil {
		log.Printf("[Render] Video %s failed: %v", id, err)
		// Record the failure even when the render context is already
		// cancelled or timed out.
		markCtx, markCancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer markCancel()
		if markErr := p.store.MarkVideoFailed(markCtx, id, err.Error()); markErr != nil {
			log.Printf("[Render] Failed to record error for video %s: %v", id, markErr)
		}
		return "", err
	}

	return url, nil
}

// tryAcquire registers the video as in-flight, reporting false when a
// render for it is already running.
func (p *Pipeline) tryAcquire(id uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.active[id]; busy {
		return false
	}
	p.active[id] = struct{}{}
	return true
}

func (p *Pipeline) release(id uuid.UUID) {
	p.mu.Lock()
	delete(p.active, id)
	p.mu.Unlock()
}

// run executes the render stages in order. All intermediate files live
// under mediaDir/<video_id>/ and are removed on completion.
func (p *Pipeline) run(ctx context.Context, job *models.VideoJob) (string, error) {
	videoDir := filepath.Join(p.mediaDir, job.ID.String())
	if err := os.MkdirAll(videoDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}
	defer os.RemoveAll(videoDir)

	if err := p.store.UpdateVideoStatus(ctx, job.ID, models.VideoStatusProcessing); err != nil {
		return "", fmt.Errorf("failed to mark video processing: %w", err)
	}

	script, err := p.ensureScript(ctx, job)
	if err != nil {
		return "", err
	}

	sentences := splitSentences(normalizeNarration(script))
	log.Printf("[Render] Video %s: %d sentences", job.ID, len(sentences))

	scenes, err := p.groupScenes(ctx, sentences, job.Voice, videoDir)
	if err != nil {
		return "", fmt.Errorf("scene grouping failed: %w", err)
	}
	log.Printf("[Render] Video %s: %d scenes", job.ID, len(scenes))

	audioPaths, err := p.synthesizeNarration(ctx, scenes, job.Voice, videoDir)
	if err != nil {
		return "", fmt.Errorf("narration synthesis failed: %w", err)
	}

	imagePaths, err := p.generateSceneImages(ctx, scenes, job, videoDir)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	scenePaths, err := p.composeScenes(ctx, imagePaths, audioPaths, job.AspectRatio, videoDir)
	if err != nil {
		return "", fmt.Errorf("scene composition failed: %w", err)
	}

	url, err := p.assemble(ctx, job, scenePaths, videoDir)
	if err != nil {
		return "", err
	}

	log.Printf("[Render] Video %s completed: %s", job.ID, url)
	return url, nil
}

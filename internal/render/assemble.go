package render

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sightreel/sightreel/internal/models"
)

// assemble concatenates the scene clips, mixes in the background music,
// uploads the result, and marks the job completed. The final object is
// keyed final_<id>.mp4 with upsert, so re-rendering a job replaces its
// previous output at the same URL.
func (p *Pipeline) assemble(ctx context.Context, job *models.VideoJob, scenePaths []string, videoDir string) (string, error) {
	narrationPath := filepath.Join(videoDir, fmt.Sprintf("narration_%s.mp4", job.ID))
	if err := p.media.ConcatFiles(ctx, scenePaths, narrationPath); err != nil {
		return "", fmt.Errorf("scene concatenation failed: %w", err)
	}

	if job.MusicTrack == nil || *job.MusicTrack == "" {
		return "", ErrMissingMusicTrack
	}

	musicPath := filepath.Join(videoDir, fmt.Sprintf("music_%s.mp3", job.ID))
	if err := p.downloadMusic(ctx, *job.MusicTrack, musicPath); err != nil {
		return "", fmt.Errorf("failed to download music: %w", err)
	}

	finalPath := filepath.Join(videoDir, fmt.Sprintf("final_%s.mp4", job.ID))
	if err := p.media.MixMusic(ctx, narrationPath, musicPath, finalPath); err != nil {
		return "", fmt.Errorf("music mixing failed: %w", err)
	}

	objectKey := fmt.Sprintf("final_%s.mp4", job.ID)
	if err := p.uploads.UploadFile(ctx, objectKey, finalPath, "video/mp4"); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	url := p.uploads.GetPublicURL(objectKey)
	if err := p.store.MarkVideoCompleted(ctx, job.ID, url); err != nil {
		return "", fmt.Errorf("failed to mark video completed: %w", err)
	}

	return url, nil
}

// downloadMusic fetches the job's background music track to a local file.
func (p *Pipeline) downloadMusic(ctx context.Context, url, destPath string) error {
	log.Printf("[Render] Downloading music from %s", url)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create music request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("music download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("music download failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create music file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to save music file: %w", err)
	}

	log.Printf("[Render] Music saved (%d bytes)", n)
	return nil
}

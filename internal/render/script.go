package render

import (
	"context"
	"fmt"
	"log"

	"github.com/sightreel/sightreel/internal/models"
)

// ensureScript returns the job's narration script, generating and
// persisting one when the job doesn't carry a script yet. Re-renders
// reuse the stored script so the same job always narrates the same text.
func (p *Pipeline) ensureScript(ctx context.Context, job *models.VideoJob) (string, error) {
	if job.Script != nil && *job.Script != "" {
		log.Printf("[Render] Video %s: reusing stored script", job.ID)
		return *job.Script, nil
	}

	log.Printf("[Render] Video %s: generating script for topic %q", job.ID, job.Topic)

	script, err := p.scripts.GenerateScript(ctx, job.Topic, job.VideoLength)
	if err != nil {
		return "", fmt.Errorf("script generation failed: %w", err)
	}

	if err := p.store.UpdateVideoScript(ctx, job.ID, script); err != nil {
		return "", fmt.Errorf("failed to save script: %w", err)
	}

	job.Script = &script
	return script, nil
}

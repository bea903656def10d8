package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sightreel/sightreel/internal/queue"
	"github.com/sightreel/sightreel/internal/render"
)

// Worker drains the render queue and drives the pipeline. Failures are
// recorded on the job row by the pipeline itself, so the worker only
// logs outcomes and keeps going.
type Worker struct {
	queue    *queue.Queue
	pipeline *render.Pipeline
}

func New(q *queue.Queue, pipeline *render.Pipeline) *Worker {
	return &Worker{
		queue:    q,
		pipeline: pipeline,
	}
}

// Start begins processing render jobs with the given concurrency.
// Blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context, concurrency int) {
	log.Printf("Worker started with concurrency: %d", concurrency)

	for i := 0; i < concurrency; i++ {
		go w.processQueue(ctx)
	}

	<-ctx.Done()
	log.Println("Worker shutting down...")
}

func (w *Worker) processQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			job, err := w.queue.Dequeue(ctx, queue.QueueRenderVideo, 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Error dequeuing render job: %v", err)
				continue
			}

			if job == nil {
				continue // No job available, retry
			}

			log.Printf("Processing job %s (video: %s)", job.ID, job.VideoID)

			url, err := w.pipeline.Render(ctx, job.VideoID)
			switch {
			case errors.Is(err, render.ErrRenderInFlight):
				// A synchronous API render already picked this video up.
				log.Printf("Job %s skipped: video %s already rendering", job.ID, job.VideoID)
			case err != nil:
				log.Printf("Job %s failed: %v", job.ID, err)
			default:
				log.Printf("Job %s completed: %s", job.ID, url)
			}
		}
	}
}

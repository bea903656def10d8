package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sightreel/sightreel/internal/catalog"
	"github.com/sightreel/sightreel/internal/db"
	"github.com/sightreel/sightreel/internal/models"
	"github.com/sightreel/sightreel/internal/queue"
	"github.com/sightreel/sightreel/internal/render"
)

type Handler struct {
	db       *db.DB
	queue    *queue.Queue
	pipeline *render.Pipeline
	catalog  *catalog.Catalog
}

func NewHandler(database *db.DB, q *queue.Queue, pipeline *render.Pipeline, cat *catalog.Catalog) *Handler {
	return &Handler{
		db:       database,
		queue:    q,
		pipeline: pipeline,
		catalog:  cat,
	}
}

// CreateVideo handles POST /api/videos
// Creates a video job and enqueues it for background rendering.
func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate
	if req.Topic == "" {
		respondError(w, http.StatusBadRequest, "Topic is required")
		return
	}
	if req.UserID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	if req.Voice == "" || !h.catalog.HasVoice(req.Voice) {
		respondError(w, http.StatusBadRequest, "Unknown voice")
		return
	}
	if req.ArtStyle == "" {
		respondError(w, http.StatusBadRequest, "Art style is required")
		return
	}
	if !req.AspectRatio.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid aspect ratio. Allowed: 16:9, 9:16, 1:1")
		return
	}
	if !req.VideoLength.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid video length. Allowed: short, long")
		return
	}

	video := &models.VideoJob{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Topic:       req.Topic,
		Voice:       req.Voice,
		ArtStyle:    req.ArtStyle,
		AspectRatio: req.AspectRatio,
		VideoLength: req.VideoLength,
		MusicTrack:  req.MusicTrack,
		Status:      models.VideoStatusPending,
	}

	if err := h.db.CreateVideo(r.Context(), video); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create video")
		return
	}

	if err := h.db.UpdateVideoStatus(r.Context(), video.ID, models.VideoStatusProcessing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update video status")
		return
	}
	video.Status = models.VideoStatusProcessing

	if err := h.queue.EnqueueRenderVideo(r.Context(), video.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enqueue render job")
		return
	}

	respondJSON(w, http.StatusCreated, models.CreateVideoResponse{
		Video:   *video,
		Message: "Video queued for generation",
	})
}

// GetVideo handles GET /api/videos/{id}
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	video, err := h.db.GetVideo(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrVideoNotFound) {
			respondError(w, http.StatusNotFound, "Video not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get video")
		return
	}

	respondJSON(w, http.StatusOK, models.VideoResponse{Video: *video})
}

// GetUserVideos handles GET /api/videos/user/{userID}
func (h *Handler) GetUserVideos(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	videos, err := h.db.GetVideosByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list videos")
		return
	}

	if videos == nil {
		videos = []models.VideoJob{}
	}
	respondJSON(w, http.StatusOK, models.VideoListResponse{Videos: videos})
}

// RenderVideo handles POST /api/render/{id}
// Runs the render pipeline synchronously and returns the final video URL.
// Responds 409 when a render for the same video is already in flight.
func (h *Handler) RenderVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	url, err := h.pipeline.Render(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrVideoNotFound):
			respondError(w, http.StatusNotFound, "Video not found")
		case errors.Is(err, render.ErrRenderInFlight):
			respondError(w, http.StatusConflict, "Render already in progress for this video")
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, models.RenderResponse{VideoURL: url})
}

// ListVoices handles GET /api/voices
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Voices)
}

// ListArtStyles handles GET /api/artstyles
func (h *Handler) ListArtStyles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.ArtStyles)
}

// ListMusic handles GET /api/music
func (h *Handler) ListMusic(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Music)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Health check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

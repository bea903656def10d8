package models

import (
	"time"

	"github.com/google/uuid"
)

// Enums

// VideoStatus is the lifecycle state of a video job.
// Forward-only (pending → processing → completed), except that failed
// is reachable from any non-terminal state.
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// VideoLength selects the target script size: ~90 words for short
// (45-second) videos, ~180 words for long (90-second) videos.
type VideoLength string

const (
	VideoLengthShort VideoLength = "short"
	VideoLengthLong  VideoLength = "long"
)

func (l VideoLength) Valid() bool {
	return l == VideoLengthShort || l == VideoLengthLong
}

// AspectRatio is one of the three supported output formats.
type AspectRatio string

const (
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio1x1  AspectRatio = "1:1"
)

func (r AspectRatio) Valid() bool {
	return r == AspectRatio16x9 || r == AspectRatio9x16 || r == AspectRatio1x1
}

// Models

// VideoJob is one requested video generation unit. Created by the API,
// mutated by the render pipeline at its checkpoints (script assignment,
// completion, failure), never deleted.
type VideoJob struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	Topic        string      `json:"topic"`
	Voice        string      `json:"voice"`
	ArtStyle     string      `json:"art_style"`
	AspectRatio  AspectRatio `json:"aspect_ratio"`
	VideoLength  VideoLength `json:"video_length"`
	MusicTrack   *string     `json:"music_track,omitempty"`
	Status       VideoStatus `json:"status"`
	Script       *string     `json:"script,omitempty"`
	VideoURL     *string     `json:"video_url,omitempty"`
	ErrorMessage *string     `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// DTOs for API requests and responses

type CreateVideoRequest struct {
	UserID      uuid.UUID   `json:"user_id"`
	Topic       string      `json:"topic"`
	Voice       string      `json:"voice"`
	ArtStyle    string      `json:"art_style"`
	AspectRatio AspectRatio `json:"aspect_ratio"`
	VideoLength VideoLength `json:"video_length"`
	MusicTrack  *string     `json:"music_track,omitempty"`
}

type CreateVideoResponse struct {
	Video   VideoJob `json:"video"`
	Message string   `json:"message"`
}

type VideoResponse struct {
	Video VideoJob `json:"video"`
}

type VideoListResponse struct {
	Videos []VideoJob `json:"videos"`
}

type RenderResponse struct {
	VideoURL string `json:"video_url"`
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sightreel/sightreel/internal/models"
)

// ErrVideoNotFound is returned when a video id has no matching record.
// Callers branch on it to map lookups to 404s.
var ErrVideoNotFound = errors.New("video not found")

func (db *DB) CreateVideo(ctx context.Context, video *models.VideoJob) error {
	query := `
		INSERT INTO videos (
			id, user_id, topic, voice, art_style, aspect_ratio,
			video_length, music_track, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	return db.QueryRowContext(
		ctx, query,
		video.ID, video.UserID, video.Topic, video.Voice, video.ArtStyle,
		video.AspectRatio, video.VideoLength, video.MusicTrack, video.Status,
	).Scan(&video.CreatedAt, &video.UpdatedAt)
}

func (db *DB) GetVideo(ctx context.Context, id uuid.UUID) (*models.VideoJob, error) {
	query := `
		SELECT
			id, user_id, topic, voice, art_style, aspect_ratio,
			video_length, music_track, status, script, video_url,
			error_message, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	video := &models.VideoJob{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&video.ID, &video.UserID, &video.Topic, &video.Voice, &video.ArtStyle,
		&video.AspectRatio, &video.VideoLength, &video.MusicTrack, &video.Status,
		&video.Script, &video.VideoURL, &video.ErrorMessage,
		&video.CreatedAt, &video.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return video, nil
}

// GetVideosByUser returns a user's video jobs, newest first.
func (db *DB) GetVideosByUser(ctx context.Context, userID uuid.UUID) ([]models.VideoJob, error) {
	query := `
		SELECT
			id, user_id, topic, voice, art_style, aspect_ratio,
			video_length, music_track, status, script, video_url,
			error_message, created_at, updated_at
		FROM videos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.VideoJob
	for rows.Next() {
		var video models.VideoJob
		err := rows.Scan(
			&video.ID, &video.UserID, &video.Topic, &video.Voice, &video.ArtStyle,
			&video.AspectRatio, &video.VideoLength, &video.MusicTrack, &video.Status,
			&video.Script, &video.VideoURL, &video.ErrorMessage,
			&video.CreatedAt, &video.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	return videos, rows.Err()
}

func (db *DB) UpdateVideoStatus(ctx context.Context, id uuid.UUID, status models.VideoStatus) error {
	query := `UPDATE videos SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.ExecContext(ctx, query, status, id)
	return err
}

// UpdateVideoScript persists a freshly generated script onto the job so
// re-renders reuse it instead of regenerating.
func (db *DB) UpdateVideoScript(ctx context.Context, id uuid.UUID, script string) error {
	query := `UPDATE videos SET script = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.ExecContext(ctx, query, script, id)
	return err
}

func (db *DB) MarkVideoCompleted(ctx context.Context, id uuid.UUID, videoURL string) error {
	query := `
		UPDATE videos
		SET status = $1, video_url = $2, error_message = NULL, updated_at = NOW()
		WHERE id = $3
	`
	_, err := db.ExecContext(ctx, query, models.VideoStatusCompleted, videoURL, id)
	return err
}

func (db *DB) MarkVideoFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE videos
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := db.ExecContext(ctx, query, models.VideoStatusFailed, errorMessage, id)
	return err
}

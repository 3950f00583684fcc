package models

import "time"

// Video is a growth-record video uploaded by a school.
type Video struct {
	ID              string     `db:"id" json:"id"`
	SchoolID        string     `db:"school_id" json:"school_id"`
	ClassID         *string    `db:"class_id" json:"class_id,omitempty"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	StorageKey      string     `db:"storage_key" json:"-"`
	ThumbnailKey    *string    `db:"thumbnail_key" json:"-"`
	DurationSeconds int        `db:"duration_seconds" json:"duration_seconds"`
	PublishedAt     *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// VideoFilter captures listing criteria for videos.
type VideoFilter struct {
	SchoolID      string
	ClassID       string
	PublishedOnly bool
	Page          int
	PageSize      int
}

// Favorite marks a video bookmarked by a guardian. Uniqueness over
// (guardian_id, video_id) backs the toggle semantics.
type Favorite struct {
	ID         string    `db:"id" json:"id"`
	GuardianID string    `db:"guardian_id" json:"guardian_id"`
	VideoID    string    `db:"video_id" json:"video_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

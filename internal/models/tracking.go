package models

import (
	"encoding/json"
	"time"
)

// ReactionType enumerates guardian reactions on a video.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionClap  ReactionType = "clap"
	ReactionHeart ReactionType = "heart"
	ReactionSmile ReactionType = "smile"
)

// Valid reports whether the reaction is a known kind.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionClap, ReactionHeart, ReactionSmile:
		return true
	}
	return false
}

// VideoView is an append-only playback record. GuardianID is nil for
// class-code sessions.
type VideoView struct {
	ID             string    `db:"id" json:"id"`
	VideoID        string    `db:"video_id" json:"video_id"`
	GuardianID     *string   `db:"guardian_id" json:"guardian_id,omitempty"`
	WatchedSeconds int       `db:"watched_seconds" json:"watched_seconds"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ReactionLog is an append-only reaction record.
type ReactionLog struct {
	ID           string       `db:"id" json:"id"`
	VideoID      string       `db:"video_id" json:"video_id"`
	GuardianID   string       `db:"guardian_id" json:"guardian_id"`
	ReactionType ReactionType `db:"reaction_type" json:"reaction_type"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// AnalyticsEvent is a free-form client telemetry record.
type AnalyticsEvent struct {
	ID        string          `db:"id" json:"id"`
	EventType string          `db:"event_type" json:"event_type"`
	Payload   json.RawMessage `db:"payload" json:"payload,omitempty"`
	SchoolID  *string         `db:"school_id" json:"school_id,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// AnalyticsSummary aggregates engagement per school over a date range.
type AnalyticsSummary struct {
	SchoolID      string `db:"school_id" json:"school_id"`
	SchoolName    string `db:"school_name" json:"school_name"`
	ViewCount     int    `db:"view_count" json:"view_count"`
	ReactionCount int    `db:"reaction_count" json:"reaction_count"`
	SponsorEvents int    `db:"sponsor_events" json:"sponsor_events"`
}

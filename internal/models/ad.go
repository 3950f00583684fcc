package models

import "time"

// Midroll trigger kinds understood by the client player.
const (
	MidrollTriggerPercentage = "percentage"
	MidrollTriggerTime       = "time"
)

// PrerollAd plays before a content video. A nil SchoolID makes the ad
// global; nil window bounds are unbounded on that side.
type PrerollAd struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	VideoURL         string     `db:"video_url" json:"video_url"`
	LinkURL          string     `db:"link_url" json:"link_url"`
	CTAText          string     `db:"cta_text" json:"cta_text"`
	SkipAfterSeconds int        `db:"skip_after_seconds" json:"skip_after_seconds"`
	Priority         int        `db:"priority" json:"priority"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	ValidFrom        *time.Time `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo          *time.Time `db:"valid_to" json:"valid_to,omitempty"`
	SchoolID         *string    `db:"school_id" json:"school_id,omitempty"`
	SponsorID        *string    `db:"sponsor_id" json:"sponsor_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// MidrollAd plays during content playback. TriggerType/TriggerValue tell
// the player when to fire (percentage of playback or a fixed second).
type MidrollAd struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	VideoURL         string     `db:"video_url" json:"video_url"`
	LinkURL          string     `db:"link_url" json:"link_url"`
	CTAText          string     `db:"cta_text" json:"cta_text"`
	SkipAfterSeconds int        `db:"skip_after_seconds" json:"skip_after_seconds"`
	TriggerType      string     `db:"trigger_type" json:"trigger_type"`
	TriggerValue     int        `db:"trigger_value" json:"trigger_value"`
	Priority         int        `db:"priority" json:"priority"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	ValidFrom        *time.Time `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo          *time.Time `db:"valid_to" json:"valid_to,omitempty"`
	SchoolID         *string    `db:"school_id" json:"school_id,omitempty"`
	SponsorID        *string    `db:"sponsor_id" json:"sponsor_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

package models

import "time"

// SponsorEventType enumerates trackable sponsor interactions.
type SponsorEventType string

const (
	SponsorEventImpression SponsorEventType = "impression"
	SponsorEventClick      SponsorEventType = "click"
	SponsorEventSupport    SponsorEventType = "support"
)

// Valid reports whether the event type is one of the known kinds.
func (t SponsorEventType) Valid() bool {
	switch t {
	case SponsorEventImpression, SponsorEventClick, SponsorEventSupport:
		return true
	}
	return false
}

// Sponsor is a banner sponsor. A nil SchoolID makes the sponsor global.
type Sponsor struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	ImageURL  string     `db:"image_url" json:"image_url"`
	LinkURL   string     `db:"link_url" json:"link_url"`
	Priority  int        `db:"priority" json:"priority"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	ValidFrom *time.Time `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo   *time.Time `db:"valid_to" json:"valid_to,omitempty"`
	SchoolID  *string    `db:"school_id" json:"school_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// SponsorEvent is an append-only interaction record.
type SponsorEvent struct {
	ID        string           `db:"id" json:"id"`
	SponsorID string           `db:"sponsor_id" json:"sponsor_id"`
	EventType SponsorEventType `db:"event_type" json:"event_type"`
	SchoolID  *string          `db:"school_id" json:"school_id,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// SponsorPerformance aggregates tracked events per sponsor for reporting.
type SponsorPerformance struct {
	SponsorID   string `db:"sponsor_id" json:"sponsor_id"`
	SponsorName string `db:"sponsor_name" json:"sponsor_name"`
	Impressions int    `db:"impressions" json:"impressions"`
	Clicks      int    `db:"clicks" json:"clicks"`
	Supports    int    `db:"supports" json:"supports"`
}

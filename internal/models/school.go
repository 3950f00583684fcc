package models

import "time"

// DisplayModePriority is the default sponsor banner display mode.
const DisplayModePriority = "priority"

// School represents a childcare facility on the platform.
type School struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Slug           string    `db:"slug" json:"slug"`
	PopDisplayMode *string   `db:"pop_display_mode" json:"pop_display_mode,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Class is a group of children within a school. ClassCode doubles as the
// shared login password for the parent session.
type Class struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	ClassCode string    `db:"class_code" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SchoolFilter captures listing criteria for schools.
type SchoolFilter struct {
	Search   string
	Page     int
	PageSize int
}

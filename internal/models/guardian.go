package models

import "time"

// Guardian is a parent/caregiver account with login credentials.
type Guardian struct {
	ID           string    `db:"id" json:"id"`
	SchoolID     string    `db:"school_id" json:"school_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Child links a guardian to a class within a school.
type Child struct {
	ID         string     `db:"id" json:"id"`
	SchoolID   string     `db:"school_id" json:"school_id"`
	ClassID    string     `db:"class_id" json:"class_id"`
	GuardianID string     `db:"guardian_id" json:"guardian_id"`
	Name       string     `db:"name" json:"name"`
	Birthday   *time.Time `db:"birthday" json:"birthday,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// DeviceToken is a push-notification registration for a guardian device.
type DeviceToken struct {
	ID         string    `db:"id" json:"id"`
	GuardianID string    `db:"guardian_id" json:"guardian_id"`
	Token      string    `db:"token" json:"token"`
	Platform   string    `db:"platform" json:"platform"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	LastSeenAt time.Time `db:"last_seen_at" json:"last_seen_at"`
}

// GuardianFilter captures listing criteria for guardians.
type GuardianFilter struct {
	SchoolID string
	Search   string
	Page     int
	PageSize int
}

package models

import "time"

// StampTypeLogin marks a stamp earned by a daily login.
const StampTypeLogin = "LOGIN"

// StampCard is the yearly ledger of daily stamps for a guardian.
// Unique over (guardian_id, year).
type StampCard struct {
	ID            string    `db:"id" json:"id"`
	GuardianID    string    `db:"guardian_id" json:"guardian_id"`
	Year          int       `db:"year" json:"year"`
	LastStampedAt time.Time `db:"last_stamped_at" json:"last_stamped_at"`
}

// Stamp is one earned stamp. Unique over (card_id, stamp_date) so at most
// one stamp per calendar day exists regardless of concurrent logins.
type Stamp struct {
	ID        string    `db:"id" json:"-"`
	CardID    string    `db:"card_id" json:"-"`
	StampDate time.Time `db:"stamp_date" json:"date"`
	StampType string    `db:"stamp_type" json:"type"`
}

// StampResult is the outcome of a login-stamp attempt.
type StampResult struct {
	IsNew  bool    `json:"isNew"`
	Stamps []Stamp `json:"stamps"`
	Total  int     `json:"total"`
}

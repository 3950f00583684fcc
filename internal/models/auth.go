package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionRole identifies the kind of session behind a token.
type SessionRole string

const (
	RoleAdmin    SessionRole = "ADMIN"
	RoleGuardian SessionRole = "GUARDIAN"
	RoleParent   SessionRole = "PARENT"
)

// AdminLoginRequest holds admin credentials.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GuardianLoginRequest holds guardian credentials.
type GuardianLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ClassLoginRequest authenticates against a shared class code.
type ClassLoginRequest struct {
	SchoolSlug string `json:"school_slug" validate:"required"`
	ClassCode  string `json:"class_code" validate:"required"`
}

// LoginResponse returns the issued token and session info.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	Role        SessionRole `json:"role"`
	DisplayName string      `json:"display_name,omitempty"`
	IssuedAt    time.Time   `json:"issued_at"`
}

// SessionClaims is the JWT payload for all three session kinds. GuardianID
// is set for guardian sessions, ClassID for class-code sessions.
type SessionClaims struct {
	Role       SessionRole `json:"role"`
	GuardianID string      `json:"guardian_id,omitempty"`
	SchoolID   string      `json:"school_id,omitempty"`
	ClassID    string      `json:"class_id,omitempty"`
	jwt.RegisteredClaims
}

// AdminUser represents a back-office operator account.
type AdminUser struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

package models

import "time"

// FaceTagStatus is the review state of a detected face tag.
type FaceTagStatus string

const (
	FaceTagPending  FaceTagStatus = "PENDING"
	FaceTagApproved FaceTagStatus = "APPROVED"
	FaceTagRejected FaceTagStatus = "REJECTED"
)

// VideoFaceTag links a detected face in a video to a child, pending admin
// review before guardians see it.
type VideoFaceTag struct {
	ID         string        `db:"id" json:"id"`
	VideoID    string        `db:"video_id" json:"video_id"`
	ChildID    string        `db:"child_id" json:"child_id"`
	Confidence float64       `db:"confidence" json:"confidence"`
	Status     FaceTagStatus `db:"status" json:"status"`
	ReviewedBy *string       `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time    `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

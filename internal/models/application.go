package models

import "time"

// ApplicationStatus tracks the lifecycle of a creator application.
type ApplicationStatus string

const (
	ApplicationStatusDraft         ApplicationStatus = "DRAFT"
	ApplicationStatusPendingReview ApplicationStatus = "PENDING_REVIEW"
	ApplicationStatusApproved      ApplicationStatus = "APPROVED"
	ApplicationStatusRejected      ApplicationStatus = "REJECTED"
)

// Terminal reports whether the status is an end state.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// CreatorApplication is an applicant's submission to the affiliate program.
type CreatorApplication struct {
	ID           string            `db:"id" json:"id"`
	UserID       string            `db:"user_id" json:"user_id"`
	Handle       string            `db:"handle" json:"handle"`
	FullName     string            `db:"full_name" json:"full_name"`
	Email        string            `db:"email" json:"email"`
	InstagramURL string            `db:"instagram_url" json:"instagram_url"`
	TikTokURL    string            `db:"tiktok_url" json:"tiktok_url"`
	Bio          string            `db:"bio" json:"bio"`
	PackageTier  int               `db:"package_tier" json:"package_tier"`
	MixName      string            `db:"mix_name" json:"mix_name"`
	Status       ApplicationStatus `db:"status" json:"status"`
	ReviewNotes  string            `db:"review_notes" json:"review_notes"`
	ReviewedAt   *time.Time        `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

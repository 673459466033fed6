package models

import "time"

// CreatorStatus tracks whether a provisioned creator is active in the program.
type CreatorStatus string

const (
	CreatorStatusActive   CreatorStatus = "ACTIVE"
	CreatorStatusInactive CreatorStatus = "INACTIVE"
)

// Creator is the entity provisioned when an application is approved. It is
// keyed by the applicant's user identity; re-approval updates the existing
// row instead of creating a duplicate.
type Creator struct {
	ID           string        `db:"id" json:"id"`
	UserID       string        `db:"user_id" json:"user_id"`
	Handle       string        `db:"handle" json:"handle"`
	FullName     string        `db:"full_name" json:"full_name"`
	Email        string        `db:"email" json:"email"`
	InstagramURL string        `db:"instagram_url" json:"instagram_url"`
	TikTokURL    string        `db:"tiktok_url" json:"tiktok_url"`
	Bio          string        `db:"bio" json:"bio"`
	PackageTier  int           `db:"package_tier" json:"package_tier"`
	MixName      string        `db:"mix_name" json:"mix_name"`
	Status       CreatorStatus `db:"status" json:"status"`
	StartDate    time.Time     `db:"start_date" json:"start_date"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

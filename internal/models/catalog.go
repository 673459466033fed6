package models

import "time"

// MixDefinition is a named content-mix profile splitting a monthly quota
// across video types. Weights are expected to sum to 1; violated profiles are
// rejected at allocation time, never silently normalised.
type MixDefinition struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Label     string     `db:"label" json:"label"`
	Weights   MixWeights `db:"weights" json:"weights"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// PackageDefinition is a subscription tier mapping to a monthly video quota
// and a flat monthly credit amount.
type PackageDefinition struct {
	ID             string    `db:"id" json:"id"`
	Tier           int       `db:"tier" json:"tier"`
	MonthlyVideos  int       `db:"monthly_videos" json:"monthly_videos"`
	MonthlyCredits float64   `db:"monthly_credits" json:"monthly_credits"`
	Label          string    `db:"label" json:"label"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// VideoRate is the unit payout rate for one video type. Provisional rates are
// displayed with a caveat but participate in arithmetic like any other rate.
type VideoRate struct {
	ID          string    `db:"id" json:"id"`
	VideoType   VideoType `db:"video_type" json:"video_type"`
	Rate        float64   `db:"rate" json:"rate"`
	Provisional bool      `db:"provisional" json:"provisional"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

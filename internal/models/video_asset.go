package models

import "time"

// VideoAssetStatus tracks the review state of an uploaded video.
type VideoAssetStatus string

const (
	VideoAssetStatusPending  VideoAssetStatus = "PENDING"
	VideoAssetStatusApproved VideoAssetStatus = "APPROVED"
	VideoAssetStatusRejected VideoAssetStatus = "REJECTED"
)

// VideoAsset is one uploaded video attached to a monthly tracking. The
// tracking's delivered counts are recomputed from the approved assets, so an
// asset flipping status always triggers a recount.
type VideoAsset struct {
	ID          string           `db:"id" json:"id"`
	TrackingID  string           `db:"tracking_id" json:"tracking_id"`
	CreatorID   string           `db:"creator_id" json:"creator_id"`
	VideoType   VideoType        `db:"video_type" json:"video_type"`
	Title       string           `db:"title" json:"title"`
	StorageKey  string           `db:"storage_key" json:"storage_key"`
	Status      VideoAssetStatus `db:"status" json:"status"`
	ReviewNotes string           `db:"review_notes" json:"review_notes"`
	UploadedAt  time.Time        `db:"uploaded_at" json:"uploaded_at"`
	ReviewedAt  *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

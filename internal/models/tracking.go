package models

import "time"

// PaymentStatus tracks the payout state of a monthly tracking.
type PaymentStatus string

const (
	PaymentStatusToDo       PaymentStatus = "TODO"
	PaymentStatusInProgress PaymentStatus = "IN_PROGRESS"
	PaymentStatusPaid       PaymentStatus = "PAID"
)

// MonthlyTracking is the per-creator-per-month record holding the quota
// allocation, delivered counts, deadline and payment state. Quotas are
// immutable once set and always sum to QuotaTotal. Delivered is a derived
// cache recomputed from the approved video assets of the tracking.
type MonthlyTracking struct {
	ID            string        `db:"id" json:"id"`
	CreatorID     string        `db:"creator_id" json:"creator_id"`
	Month         string        `db:"month" json:"month"`
	PackageTier   int           `db:"package_tier" json:"package_tier"`
	QuotaTotal    int           `db:"quota_total" json:"quota_total"`
	MixName       string        `db:"mix_name" json:"mix_name"`
	Quotas        VideoCounts   `db:"quotas" json:"quotas"`
	Delivered     VideoCounts   `db:"delivered" json:"delivered"`
	Deadline      time.Time     `db:"deadline" json:"deadline"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	PaidAt        *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// SummaryStatus reports whether a tracking's quota has been fully delivered.
type SummaryStatus string

const (
	SummaryStatusOK      SummaryStatus = "OK"
	SummaryStatusPending SummaryStatus = "PENDING"
)

// TrackingSummary compares quotas against delivered counts. The numeric
// fields are authoritative; RemainingDetails is display text.
type TrackingSummary struct {
	DeliveredTotal   int           `json:"delivered_total"`
	RemainingTotal   int           `json:"remaining_total"`
	Status           SummaryStatus `json:"status"`
	RemainingDetails string        `json:"remaining_details"`
}

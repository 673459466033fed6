package models

// PayoutItem is one line of a payout breakdown. Items exist only for video
// types present in the rate table and follow the VideoTypes enumeration
// order.
type PayoutItem struct {
	VideoType   VideoType `json:"video_type"`
	Delivered   int       `json:"delivered"`
	Rate        float64   `json:"rate"`
	Subtotal    float64   `json:"subtotal"`
	Provisional bool      `json:"provisional"`
}

// PayoutBreakdown is the result of the payout calculation for one tracking
// month. Total includes the package's flat monthly credits. No currency
// rounding is applied here; formatting is a presentation concern.
type PayoutBreakdown struct {
	MonthlyCredits float64      `json:"monthly_credits"`
	Total          float64      `json:"total"`
	Items          []PayoutItem `json:"items"`
}

// CreatorDashboard composes the read-path payload rendered on a creator's
// monthly overview.
type CreatorDashboard struct {
	Tracking *MonthlyTracking `json:"tracking"`
	Payout   PayoutBreakdown  `json:"payout"`
	Summary  TrackingSummary  `json:"summary"`
}

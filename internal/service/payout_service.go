package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

// QuotaCompleteMessage is the fixed summary text shown when a tracking's
// remaining total reaches zero.
const QuotaCompleteMessage = "Quota complete"

// PayoutService computes payout breakdowns and tracking summaries. Both
// operations are pure and are called on read paths only.
type PayoutService struct {
	logger *zap.Logger
}

// NewPayoutService constructs a PayoutService.
func NewPayoutService(logger *zap.Logger) *PayoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayoutService{logger: logger}
}

// Calculate converts delivered counts, a rate table and the package's flat
// monthly credits into a total payout with line items. Items exist only for
// video types present in the rate table and follow enumeration order; a type
// without a rate entry contributes nothing.
func (s *PayoutService) Calculate(delivered models.VideoCounts, rates []models.VideoRate, monthlyCredits float64) models.PayoutBreakdown {
	rateByType := make(map[models.VideoType]models.VideoRate, len(rates))
	for _, rate := range rates {
		rateByType[rate.VideoType] = rate
	}

	breakdown := models.PayoutBreakdown{
		MonthlyCredits: monthlyCredits,
		Total:          monthlyCredits,
	}
	for _, t := range models.VideoTypes {
		rate, ok := rateByType[t]
		if !ok {
			continue
		}
		count := delivered[t]
		subtotal := float64(count) * rate.Rate
		breakdown.Items = append(breakdown.Items, models.PayoutItem{
			VideoType:   t,
			Delivered:   count,
			Rate:        rate.Rate,
			Subtotal:    subtotal,
			Provisional: rate.Provisional,
		})
		breakdown.Total += subtotal
	}
	return breakdown
}

// Summarize compares quotas against delivered counts. Remaining counts clamp
// at zero per category, so over-delivery in one category never offsets
// another.
func (s *PayoutService) Summarize(quotas, delivered models.VideoCounts) models.TrackingSummary {
	summary := models.TrackingSummary{}
	var parts []string
	for _, t := range models.VideoTypes {
		summary.DeliveredTotal += delivered[t]
		remaining := quotas[t] - delivered[t]
		if remaining <= 0 {
			continue
		}
		summary.RemainingTotal += remaining
		parts = append(parts, fmt.Sprintf("%d %s", remaining, t.Label()))
	}
	if summary.RemainingTotal == 0 {
		summary.Status = models.SummaryStatusOK
		summary.RemainingDetails = QuotaCompleteMessage
	} else {
		summary.Status = models.SummaryStatusPending
		summary.RemainingDetails = strings.Join(parts, ", ")
	}
	return summary
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

func fullRateTable() []models.VideoRate {
	return []models.VideoRate{
		{VideoType: models.VideoTypeOOTD, Rate: 25},
		{VideoType: models.VideoTypeTraining, Rate: 30},
		{VideoType: models.VideoTypeBeforeAfter, Rate: 40},
		{VideoType: models.VideoTypeSports80s, Rate: 35, Provisional: true},
		{VideoType: models.VideoTypeCinematic, Rate: 50},
	}
}

func TestPayoutCalculate(t *testing.T) {
	svc := NewPayoutService(nil)

	breakdown := svc.Calculate(models.VideoCounts{
		models.VideoTypeOOTD:     4,
		models.VideoTypeTraining: 2,
	}, fullRateTable(), 100)

	assert.Equal(t, 100.0, breakdown.MonthlyCredits)
	assert.Equal(t, 100.0+4*25+2*30, breakdown.Total)
	require.Len(t, breakdown.Items, 5)
	assert.Equal(t, models.VideoTypeOOTD, breakdown.Items[0].VideoType)
	assert.Equal(t, 100.0, breakdown.Items[0].Subtotal)
	assert.Equal(t, 0, breakdown.Items[4].Delivered)
	assert.Equal(t, 0.0, breakdown.Items[4].Subtotal)
}

func TestPayoutCalculateItemsFollowEnumerationOrder(t *testing.T) {
	svc := NewPayoutService(nil)

	// Rate table deliberately shuffled.
	rates := []models.VideoRate{
		{VideoType: models.VideoTypeCinematic, Rate: 50},
		{VideoType: models.VideoTypeOOTD, Rate: 25},
	}
	breakdown := svc.Calculate(models.VideoCounts{models.VideoTypeCinematic: 1}, rates, 0)

	require.Len(t, breakdown.Items, 2)
	assert.Equal(t, models.VideoTypeOOTD, breakdown.Items[0].VideoType)
	assert.Equal(t, models.VideoTypeCinematic, breakdown.Items[1].VideoType)
	assert.Equal(t, 50.0, breakdown.Total)
}

func TestPayoutCalculateSkipsUnratedTypes(t *testing.T) {
	svc := NewPayoutService(nil)

	rates := []models.VideoRate{{VideoType: models.VideoTypeOOTD, Rate: 25}}
	breakdown := svc.Calculate(models.VideoCounts{
		models.VideoTypeOOTD:     1,
		models.VideoTypeTraining: 9,
	}, rates, 0)

	// Training has no rate entry, so it contributes neither an item nor money.
	require.Len(t, breakdown.Items, 1)
	assert.Equal(t, 25.0, breakdown.Total)
}

func TestPayoutCalculatePropagatesProvisionalFlag(t *testing.T) {
	svc := NewPayoutService(nil)

	breakdown := svc.Calculate(models.VideoCounts{models.VideoTypeSports80s: 2}, fullRateTable(), 0)

	require.Len(t, breakdown.Items, 5)
	assert.True(t, breakdown.Items[3].Provisional)
	assert.False(t, breakdown.Items[0].Provisional)
	assert.Equal(t, 70.0, breakdown.Items[3].Subtotal)
}

func TestPayoutCalculateEmptyRateTable(t *testing.T) {
	svc := NewPayoutService(nil)

	breakdown := svc.Calculate(models.VideoCounts{models.VideoTypeOOTD: 5}, nil, 250)

	assert.Empty(t, breakdown.Items)
	assert.Equal(t, 250.0, breakdown.Total)
}

func TestSummarizePending(t *testing.T) {
	svc := NewPayoutService(nil)

	summary := svc.Summarize(models.VideoCounts{
		models.VideoTypeOOTD:        3,
		models.VideoTypeTraining:    2,
		models.VideoTypeBeforeAfter: 1,
	}, models.VideoCounts{
		models.VideoTypeOOTD:     1,
		models.VideoTypeTraining: 2,
	})

	assert.Equal(t, models.SummaryStatusPending, summary.Status)
	assert.Equal(t, 3, summary.DeliveredTotal)
	assert.Equal(t, 3, summary.RemainingTotal)
	assert.Equal(t, "2 OOTD, 1 Before/After", summary.RemainingDetails)
}

func TestSummarizeComplete(t *testing.T) {
	svc := NewPayoutService(nil)

	quotas := models.VideoCounts{models.VideoTypeOOTD: 2, models.VideoTypeTraining: 1}
	summary := svc.Summarize(quotas, quotas)

	assert.Equal(t, models.SummaryStatusOK, summary.Status)
	assert.Equal(t, 0, summary.RemainingTotal)
	assert.Equal(t, QuotaCompleteMessage, summary.RemainingDetails)
}

func TestSummarizeOverDeliveryClampsPerCategory(t *testing.T) {
	svc := NewPayoutService(nil)

	summary := svc.Summarize(models.VideoCounts{
		models.VideoTypeOOTD:     2,
		models.VideoTypeTraining: 2,
	}, models.VideoCounts{
		models.VideoTypeOOTD: 5,
	})

	// Over-delivering OOTD does not cover the Training shortfall.
	assert.Equal(t, models.SummaryStatusPending, summary.Status)
	assert.Equal(t, 5, summary.DeliveredTotal)
	assert.Equal(t, 2, summary.RemainingTotal)
	assert.Equal(t, "2 Training", summary.RemainingDetails)
}

func TestSummarizeEmptyQuotas(t *testing.T) {
	svc := NewPayoutService(nil)

	summary := svc.Summarize(models.VideoCounts{}, models.VideoCounts{})

	assert.Equal(t, models.SummaryStatusOK, summary.Status)
	assert.Equal(t, QuotaCompleteMessage, summary.RemainingDetails)
}

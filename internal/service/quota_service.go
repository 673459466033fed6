package service

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

// DefaultMixWeightEpsilon is the tolerance applied when checking that mix
// weights sum to 1.
const DefaultMixWeightEpsilon = 1e-6

// QuotaService converts a total monthly video quota and a content-mix
// distribution into integer per-category quotas summing exactly to the total.
type QuotaService struct {
	epsilon float64
	logger  *zap.Logger
}

// NewQuotaService constructs a QuotaService. A non-positive epsilon falls
// back to the default tolerance.
func NewQuotaService(epsilon float64, logger *zap.Logger) *QuotaService {
	if epsilon <= 0 {
		epsilon = DefaultMixWeightEpsilon
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotaService{epsilon: epsilon, logger: logger}
}

// ValidateMix rejects distributions whose weights do not sum to 1 within the
// configured tolerance, or carry out-of-range weights.
func (s *QuotaService) ValidateMix(mix models.MixDefinition) error {
	sum := 0.0
	for _, t := range models.VideoTypes {
		weight := mix.Weights[t]
		if weight < 0 || weight > 1 {
			return appErrors.Clone(appErrors.ErrInvalidDistribution, fmt.Sprintf("mix %q weight for %s out of range", mix.Name, t))
		}
		sum += weight
	}
	if math.Abs(sum-1) > s.epsilon {
		return appErrors.Clone(appErrors.ErrInvalidDistribution, fmt.Sprintf("mix %q weights sum to %g, expected 1", mix.Name, sum))
	}
	return nil
}

// Allocate splits quotaTotal across video types proportionally to the mix
// weights. Each category receives the floor of its exact share; the leftover
// units go to the categories with the largest fractional shares, ties broken
// by enumeration order.
func (s *QuotaService) Allocate(quotaTotal int, mix models.MixDefinition) (models.VideoCounts, error) {
	if quotaTotal < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quota total must not be negative")
	}
	if err := s.ValidateMix(mix); err != nil {
		return nil, err
	}

	type share struct {
		videoType models.VideoType
		fraction  float64
	}

	quotas := make(models.VideoCounts, len(models.VideoTypes))
	shares := make([]share, 0, len(models.VideoTypes))
	floorSum := 0
	for _, t := range models.VideoTypes {
		exact := float64(quotaTotal) * mix.Weights[t]
		base := int(math.Floor(exact))
		quotas[t] = base
		floorSum += base
		shares = append(shares, share{videoType: t, fraction: exact - math.Floor(exact)})
	}

	// The remainder is always smaller than the number of categories.
	remainder := quotaTotal - floorSum
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].fraction > shares[j].fraction
	})
	for i := 0; i < remainder && i < len(shares); i++ {
		quotas[shares[i].videoType]++
	}

	return quotas, nil
}

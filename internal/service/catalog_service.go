package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

type catalogRepo interface {
	ListPackages(ctx context.Context) ([]models.PackageDefinition, error)
	ListMixes(ctx context.Context) ([]models.MixDefinition, error)
	ListRates(ctx context.Context) ([]models.VideoRate, error)
}

// MixView is a mix definition annotated with its validation state, so admin
// screens can flag profiles that would be rejected at allocation time.
type MixView struct {
	models.MixDefinition
	Valid        bool   `json:"valid"`
	InvalidCause string `json:"invalid_cause,omitempty"`
}

// CatalogService serves the static program catalog: package tiers, content
// mixes and per-type video rates.
type CatalogService struct {
	catalog catalogRepo
	quotas  *QuotaService
	logger  *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog catalogRepo, quotas *QuotaService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{catalog: catalog, quotas: quotas, logger: logger}
}

// ListPackages returns all package tiers.
func (s *CatalogService) ListPackages(ctx context.Context) ([]models.PackageDefinition, error) {
	packages, err := s.catalog.ListPackages(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	return packages, nil
}

// ListMixes returns all mix definitions with their validation state.
func (s *CatalogService) ListMixes(ctx context.Context) ([]MixView, error) {
	mixes, err := s.catalog.ListMixes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mixes")
	}
	views := make([]MixView, 0, len(mixes))
	for _, mix := range mixes {
		view := MixView{MixDefinition: mix, Valid: true}
		if err := s.quotas.ValidateMix(mix); err != nil {
			view.Valid = false
			view.InvalidCause = appErrors.FromError(err).Message
		}
		views = append(views, view)
	}
	return views, nil
}

// ListRates returns the current rate table.
func (s *CatalogService) ListRates(ctx context.Context) ([]models.VideoRate, error) {
	rates, err := s.catalog.ListRates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list video rates")
	}
	return rates, nil
}

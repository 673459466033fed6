package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

// CatalogRepository reads the program catalog: package tiers, content mixes
// and video rates.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListPackages returns all package definitions ordered by tier.
func (r *CatalogRepository) ListPackages(ctx context.Context) ([]models.PackageDefinition, error) {
	const query = `SELECT id, tier, monthly_videos, monthly_credits, label, created_at, updated_at
        FROM package_definitions ORDER BY tier ASC`
	var packages []models.PackageDefinition
	if err := r.db.SelectContext(ctx, &packages, query); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return packages, nil
}

// ListMixes returns all mix definitions ordered by name.
func (r *CatalogRepository) ListMixes(ctx context.Context) ([]models.MixDefinition, error) {
	const query = `SELECT id, name, label, weights, created_at, updated_at
        FROM mix_definitions ORDER BY name ASC`
	var mixes []models.MixDefinition
	if err := r.db.SelectContext(ctx, &mixes, query); err != nil {
		return nil, fmt.Errorf("list mixes: %w", err)
	}
	return mixes, nil
}

// ListRates returns the current rate table.
func (r *CatalogRepository) ListRates(ctx context.Context) ([]models.VideoRate, error) {
	const query = `SELECT id, video_type, rate, provisional, updated_at FROM video_rates`
	var rates []models.VideoRate
	if err := r.db.SelectContext(ctx, &rates, query); err != nil {
		return nil, fmt.Errorf("list video rates: %w", err)
	}
	return rates, nil
}

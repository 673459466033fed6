package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

func exportFixture(tracking *models.MonthlyTracking) *ExportService {
	return NewExportService(
		&fakeTrackingRepo{tracking: tracking},
		&fakeRateLister{rates: []models.VideoRate{
			{VideoType: models.VideoTypeOOTD, Rate: 25},
			{VideoType: models.VideoTypeSports80s, Rate: 35, Provisional: true},
		}},
		&fakePackageLister{packages: []models.PackageDefinition{{Tier: 2, MonthlyCredits: 100}}},
		NewPayoutService(nil),
		nil,
	)
}

func exportTracking() *models.MonthlyTracking {
	return &models.MonthlyTracking{
		ID:          "trk-1",
		CreatorID:   "cr-1",
		Month:       "2026-04",
		PackageTier: 2,
		Delivered: models.VideoCounts{
			models.VideoTypeOOTD:      2,
			models.VideoTypeSports80s: 1,
		},
	}
}

func TestExportStatementCSV(t *testing.T) {
	svc := exportFixture(exportTracking())

	statement, err := svc.Statement(context.Background(), "trk-1", "", StatementFormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "payout-cr-1-2026-04.csv", statement.FileName)
	assert.Equal(t, "text/csv", statement.ContentType)

	body := string(statement.Content)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Category,Delivered,Rate,Subtotal", lines[0])
	assert.Equal(t, "OOTD,2,25.00,50.00", lines[1])
	assert.Equal(t, "80s Sports,1,35.00 (provisional),35.00", lines[2])
	assert.Equal(t, "Monthly credits,,,100.00", lines[3])
	assert.Equal(t, "Total,,,185.00", lines[4])
}

func TestExportStatementPDF(t *testing.T) {
	svc := exportFixture(exportTracking())

	statement, err := svc.Statement(context.Background(), "trk-1", "", StatementFormatPDF)

	require.NoError(t, err)
	assert.Equal(t, "payout-cr-1-2026-04.pdf", statement.FileName)
	assert.Equal(t, "application/pdf", statement.ContentType)
	assert.True(t, strings.HasPrefix(string(statement.Content), "%PDF"))
}

func TestExportStatementUnknownFormat(t *testing.T) {
	svc := exportFixture(exportTracking())

	_, err := svc.Statement(context.Background(), "trk-1", "", "xlsx")

	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestExportStatementTrackingNotFound(t *testing.T) {
	svc := NewExportService(&fakeTrackingRepo{findErr: sql.ErrNoRows}, &fakeRateLister{}, &fakePackageLister{}, NewPayoutService(nil), nil)

	_, err := svc.Statement(context.Background(), "trk-404", "", StatementFormatCSV)

	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestExportStatementRepoFailureIsNotNotFound(t *testing.T) {
	svc := NewExportService(&fakeTrackingRepo{findErr: errors.New("connection reset")}, &fakeRateLister{}, &fakePackageLister{}, NewPayoutService(nil), nil)

	_, err := svc.Statement(context.Background(), "trk-1", "", StatementFormatCSV)

	require.Error(t, err)
	assert.False(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestExportStatementOtherCreatorForbidden(t *testing.T) {
	svc := exportFixture(exportTracking())

	_, err := svc.Statement(context.Background(), "trk-1", "cr-2", StatementFormatCSV)

	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestExportStatementOwnerAllowed(t *testing.T) {
	svc := exportFixture(exportTracking())

	statement, err := svc.Statement(context.Background(), "trk-1", "cr-1", StatementFormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "payout-cr-1-2026-04.csv", statement.FileName)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
	"github.com/cyberkingz/retromuscle-affiliate-api/pkg/export"
)

// StatementFormat selects the payout statement rendering.
type StatementFormat string

const (
	StatementFormatCSV StatementFormat = "csv"
	StatementFormatPDF StatementFormat = "pdf"
)

// Statement is a rendered payout statement ready for streaming.
type Statement struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders payout statements for a tracking month.
type ExportService struct {
	trackings trackingRepo
	rates     rateLister
	packages  packageLister
	payouts   *PayoutService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(trackings trackingRepo, rates rateLister, packages packageLister, payouts *PayoutService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		trackings: trackings,
		rates:     rates,
		packages:  packages,
		payouts:   payouts,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// Statement renders the payout statement for a tracking in the requested
// format. A non-empty callerCreatorID restricts the export to that creator's
// own trackings; admins pass the empty string.
func (s *ExportService) Statement(ctx context.Context, trackingID, callerCreatorID string, format StatementFormat) (*Statement, error) {
	tracking, err := s.trackings.FindByID(ctx, trackingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tracking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tracking")
	}
	if callerCreatorID != "" && tracking.CreatorID != callerCreatorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "tracking belongs to another creator")
	}

	rates, err := s.rates.ListRates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list video rates")
	}

	credits := 0.0
	packages, err := s.packages.ListPackages(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	for _, pkg := range packages {
		if pkg.Tier == tracking.PackageTier {
			credits = pkg.MonthlyCredits
			break
		}
	}

	breakdown := s.payouts.Calculate(tracking.Delivered, rates, credits)
	dataset := statementDataset(tracking, breakdown)
	title := fmt.Sprintf("Payout statement %s", tracking.Month)

	switch format {
	case StatementFormatPDF:
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf statement")
		}
		return &Statement{
			FileName:    fmt.Sprintf("payout-%s-%s.pdf", tracking.CreatorID, tracking.Month),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	case StatementFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv statement")
		}
		return &Statement{
			FileName:    fmt.Sprintf("payout-%s-%s.csv", tracking.CreatorID, tracking.Month),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported statement format %q", format))
	}
}

func statementDataset(tracking *models.MonthlyTracking, breakdown models.PayoutBreakdown) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Category", "Delivered", "Rate", "Subtotal"},
	}
	for _, item := range breakdown.Items {
		rate := strconv.FormatFloat(item.Rate, 'f', 2, 64)
		if item.Provisional {
			rate += " (provisional)"
		}
		dataset.Rows = append(dataset.Rows, []string{
			item.VideoType.Label(),
			strconv.Itoa(item.Delivered),
			rate,
			strconv.FormatFloat(item.Subtotal, 'f', 2, 64),
		})
	}
	dataset.Rows = append(dataset.Rows,
		[]string{"Monthly credits", "", "", strconv.FormatFloat(breakdown.MonthlyCredits, 'f', 2, 64)},
		[]string{"Total", "", "", strconv.FormatFloat(breakdown.Total, 'f', 2, 64)},
	)
	return dataset
}

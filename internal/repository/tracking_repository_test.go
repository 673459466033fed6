package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

func trackingRows(quotas, delivered string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "creator_id", "month", "package_tier", "quota_total", "mix_name", "quotas", "delivered",
		"deadline", "payment_status", "paid_at", "created_at", "updated_at",
	}).AddRow("trk-1", "cr-1", "2026-04", 2, 40, "balanced", []byte(quotas), []byte(delivered),
		time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), models.PaymentStatusInProgress, nil, now, now)
}

func TestTrackingRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM monthly_trackings WHERE id = \$1`).
		WithArgs("trk-1").
		WillReturnRows(trackingRows(`{"OOTD":16,"TRAINING":14,"BEFORE_AFTER":8,"SPORTS_80S":0,"CINEMATIC":2}`, `{"OOTD":3}`))

	tracking, err := repo.FindByID(context.Background(), "trk-1")
	require.NoError(t, err)
	assert.Equal(t, 40, tracking.QuotaTotal)
	assert.Equal(t, 16, tracking.Quotas[models.VideoTypeOOTD])
	assert.Equal(t, 3, tracking.Delivered[models.VideoTypeOOTD])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRepositoryCreateReturnsSurvivingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	// The conflict clause may swallow the insert; the re-select returns
	// whichever row survived.
	mock.ExpectExec(`INSERT INTO monthly_trackings`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM monthly_trackings WHERE creator_id = \$1 AND month = \$2`).
		WithArgs("cr-1", "2026-04").
		WillReturnRows(trackingRows(`{"OOTD":16}`, `{}`))

	created, err := repo.Create(context.Background(), &models.MonthlyTracking{
		CreatorID:     "cr-1",
		Month:         "2026-04",
		PackageTier:   2,
		QuotaTotal:    40,
		MixName:       "balanced",
		Quotas:        models.VideoCounts{models.VideoTypeOOTD: 16},
		Delivered:     models.ZeroVideoCounts(),
		Deadline:      time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC),
		PaymentStatus: models.PaymentStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, "trk-1", created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingQueryObserver struct {
	labels []string
}

func (o *recordingQueryObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.labels = append(o.labels, label)
}

func TestTrackingRepositoryObservesQueryTimings(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	observer := &recordingQueryObserver{}
	repo := NewTrackingRepository(db).WithMetrics(observer)

	mock.ExpectQuery(`SELECT (.+) FROM monthly_trackings WHERE id = \$1`).
		WithArgs("trk-1").
		WillReturnRows(trackingRows(`{"OOTD":16}`, `{}`))
	mock.ExpectExec(`UPDATE monthly_trackings SET delivered = \(`).
		WithArgs("trk-1", models.VideoAssetStatusApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM monthly_trackings WHERE id = \$1`).
		WithArgs("trk-1").
		WillReturnRows(trackingRows(`{"OOTD":16}`, `{}`))

	_, err := repo.FindByID(context.Background(), "trk-1")
	require.NoError(t, err)
	_, err = repo.RecountDelivered(context.Background(), "trk-1")
	require.NoError(t, err)

	// The recount re-selects the row, so its inner lookup is observed too.
	assert.Equal(t, []string{"tracking_find_by_id", "tracking_find_by_id", "tracking_recount_delivered"}, observer.labels)
}

func TestTrackingRepositorySetPaymentStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	paidAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE monthly_trackings SET payment_status = \$2, paid_at = \$3, updated_at = \$4 WHERE id = \$1`).
		WithArgs("trk-1", models.PaymentStatusPaid, paidAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetPaymentStatus(context.Background(), "trk-1", models.PaymentStatusPaid, &paidAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackingRepositoryRecountDelivered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrackingRepository(db)

	mock.ExpectExec(`UPDATE monthly_trackings SET delivered = \(`).
		WithArgs("trk-1", models.VideoAssetStatusApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM monthly_trackings WHERE id = \$1`).
		WithArgs("trk-1").
		WillReturnRows(trackingRows(`{"OOTD":16}`, `{"OOTD":4,"TRAINING":1}`))

	tracking, err := repo.RecountDelivered(context.Background(), "trk-1")
	require.NoError(t, err)
	assert.Equal(t, 4, tracking.Delivered[models.VideoTypeOOTD])
	assert.Equal(t, 1, tracking.Delivered[models.VideoTypeTraining])
	assert.NoError(t, mock.ExpectationsWereMet())
}

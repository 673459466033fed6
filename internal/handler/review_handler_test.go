package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	"github.com/cyberkingz/retromuscle-affiliate-api/internal/service"
)

type stubApplicationRepo struct {
	app     *models.CreatorApplication
	findErr error
}

func (s *stubApplicationRepo) FindByUserID(context.Context, string) (*models.CreatorApplication, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.app, nil
}

func (s *stubApplicationRepo) UpdateReview(_ context.Context, _ string, status models.ApplicationStatus, notes string, reviewedAt time.Time) (*models.CreatorApplication, error) {
	updated := *s.app
	updated.Status = status
	updated.ReviewNotes = notes
	updated.ReviewedAt = &reviewedAt
	return &updated, nil
}

type stubCreatorRepo struct{}

func (s *stubCreatorRepo) UpsertFromApplication(context.Context, *models.CreatorApplication, models.CreatorStatus, time.Time) (*models.Creator, error) {
	return &models.Creator{ID: "cr-1", UserID: "user-1"}, nil
}

type stubTrackingRepo struct{}

func (s *stubTrackingRepo) FindByCreatorAndMonth(context.Context, string, string) (*models.MonthlyTracking, error) {
	return nil, sql.ErrNoRows
}

func (s *stubTrackingRepo) Create(_ context.Context, tracking *models.MonthlyTracking) (*models.MonthlyTracking, error) {
	created := *tracking
	created.ID = "trk-1"
	return &created, nil
}

type stubCatalog struct{}

func (s *stubCatalog) ListPackages(context.Context) ([]models.PackageDefinition, error) {
	return []models.PackageDefinition{{Tier: 2, MonthlyVideos: 40, MonthlyCredits: 100}}, nil
}

func (s *stubCatalog) ListMixes(context.Context) ([]models.MixDefinition, error) {
	return []models.MixDefinition{{Name: "balanced", Weights: models.MixWeights{
		models.VideoTypeOOTD:     0.5,
		models.VideoTypeTraining: 0.5,
	}}}, nil
}

func reviewHandlerFixture(apps *stubApplicationRepo) *ReviewHandler {
	svc := service.NewReviewService(service.ReviewServiceParams{
		Applications: apps,
		Creators:     &stubCreatorRepo{},
		Trackings:    &stubTrackingRepo{},
		Catalog:      &stubCatalog{},
		Quotas:       service.NewQuotaService(0, nil),
	})
	return NewReviewHandler(svc)
}

func performReview(t *testing.T, handler *ReviewHandler, userID string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/applications/"+userID+"/review", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: userID}}

	handler.Review(c)
	return rec
}

func TestReviewHandlerApprove(t *testing.T) {
	handler := reviewHandlerFixture(&stubApplicationRepo{app: &models.CreatorApplication{
		ID:          "app-1",
		UserID:      "user-1",
		PackageTier: 2,
		MixName:     "balanced",
		Status:      models.ApplicationStatusPendingReview,
	}})

	rec := performReview(t, handler, "user-1", gin.H{"decision": "APPROVED"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			CreatorID  string `json:"creator_id"`
			TrackingID string `json:"tracking_id"`
			Application struct {
				Status string `json:"status"`
			} `json:"application"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "cr-1", envelope.Data.CreatorID)
	assert.Equal(t, "trk-1", envelope.Data.TrackingID)
	assert.Equal(t, "APPROVED", envelope.Data.Application.Status)
}

func TestReviewHandlerNotFound(t *testing.T) {
	handler := reviewHandlerFixture(&stubApplicationRepo{findErr: sql.ErrNoRows})

	rec := performReview(t, handler, "ghost", gin.H{"decision": "REJECTED"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewHandlerBadPayload(t *testing.T) {
	handler := reviewHandlerFixture(&stubApplicationRepo{app: &models.CreatorApplication{UserID: "user-1", Status: models.ApplicationStatusPendingReview}})

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/applications/user-1/review", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "user-1"}}

	handler.Review(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewHandlerDraftConflict(t *testing.T) {
	handler := reviewHandlerFixture(&stubApplicationRepo{app: &models.CreatorApplication{
		UserID: "user-1",
		Status: models.ApplicationStatusDraft,
	}})

	rec := performReview(t, handler, "user-1", gin.H{"decision": "APPROVED"})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

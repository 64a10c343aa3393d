package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	"github.com/noah-isme/tutor-directory-api/internal/repository"
	"github.com/noah-isme/tutor-directory-api/internal/service"
	"github.com/noah-isme/tutor-directory-api/pkg/validation"
)

const testPrefix = "/api/v1"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	catalog, err := repository.NewSeedCatalog()
	require.NoError(t, err)

	hash, err := service.HashPassword("s3cret")
	require.NoError(t, err)

	validator := validation.New()
	metrics := service.NewMetricsService()
	inbox := repository.NewMemorySubmissionRepository()
	tutors := service.NewTutorService(catalog, nil, metrics, nil, service.TutorServiceConfig{})
	auth := service.NewAdminAuthService(validator, nil, service.AuthConfig{
		Username:     "admin",
		PasswordHash: hash,
		TokenSecret:  "test-secret",
		TokenExpiry:  time.Hour,
		Issuer:       "tutor-directory-test",
	})

	r := gin.New()
	RegisterRoutes(r, testPrefix, Handlers{
		Tutors:      NewTutorHandler(tutors),
		Catalog:     NewCatalogHandler(service.NewCatalogService(catalog, nil)),
		Submissions: NewSubmissionHandler(service.NewSubmissionService(inbox, validator, metrics, nil)),
		Auth:        NewAuthHandler(auth),
		Dashboard:   NewDashboardHandler(service.NewDashboardService(service.DashboardServiceParams{Catalog: catalog, Inbox: inbox, Metrics: metrics})),
		Export:      NewExportHandler(service.NewExportService(tutors, nil, nil, nil)),
		Metrics:     NewMetricsHandler(metrics, nil),
	}, auth)
	return r
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, testPrefix+"/admin/login", jsonBody(`{"username":"admin","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session models.Session
	decodeData(t, decodeEnvelope(t, rec), &session)
	return session.AccessToken
}

func TestRouterListingRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	subject := "رياضيات"

	rec := serve(r, httptest.NewRequest(http.MethodGet, testPrefix+"/tutors?subject="+url.QueryEscape(subject)+"&sort=rating&rating=abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/tutors?subject="+url.QueryEscape(subject), rec.Header().Get("Content-Location"))

	var listing dto.TutorListing
	decodeData(t, decodeEnvelope(t, rec), &listing)
	ids := make([]string, 0, len(listing.Tutors))
	for _, tutor := range listing.Tutors {
		ids = append(ids, tutor.ID)
	}
	assert.Equal(t, []string{"1", "5", "6"}, ids)
	assert.Equal(t, 1, listing.ActiveFilters)
}

func TestRouterFilterSessionReplay(t *testing.T) {
	r := newTestRouter(t)
	body := `{"query":"online=true","ops":[{"op":"set","key":"minRating","value":4.5},{"op":"set","key":"minRating","value":4.5},{"op":"remove","key":"onlineOnly"}]}`

	req := httptest.NewRequest(http.MethodPost, testPrefix+"/tutors/filters", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.FilterSessionResponse
	decodeData(t, decodeEnvelope(t, rec), &res)
	assert.Equal(t, 2, res.Propagations)
	assert.Equal(t, "/tutors?rating=4.5", res.Location)
	assert.Equal(t, 3, res.TotalResults)
}

func TestRouterAdminRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, httptest.NewRequest(http.MethodGet, testPrefix+"/admin/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, testPrefix+"/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+login(t, r))
	rec = serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.DashboardSummary
	decodeData(t, decodeEnvelope(t, rec), &summary)
	assert.Equal(t, 6, summary.Totals.TotalTeachers)
	assert.Equal(t, 1, summary.Totals.PendingTeachers)
}

func TestRouterApplicationReachesInbox(t *testing.T) {
	r := newTestRouter(t)
	form := `{"name":"منى سعيد","phone":"+201000000009","email":"Mona@Example.com","subjects":["علوم"],"educationLevels":["ابتدائي"],"locations":["الجيزة"],"description":"خبرة خمس سنوات","teachingMethod":"تجارب عملية"}`

	req := httptest.NewRequest(http.MethodPost, testPrefix+"/applications", jsonBody(form))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, testPrefix+"/admin/applications", nil)
	req.Header.Set("Authorization", "Bearer "+login(t, r))
	rec = serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var apps []models.TeacherApplication
	envelope := decodeEnvelope(t, rec)
	decodeData(t, envelope, &apps)
	require.Len(t, apps, 1)
	assert.Equal(t, "mona@example.com", apps[0].Email)
	assert.Equal(t, float64(1), envelope.Pagination["total_count"])
}

func TestRouterExportCSV(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, testPrefix+"/admin/tutors/export?format=csv&online=true", nil)
	req.Header.Set("Authorization", "Bearer "+login(t, r))
	rec := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment; filename=tutors-"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 4)
}

func TestRouterCatalogPages(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/subjects?level=all", "/levels", "/locations"} {
		rec := serve(r, httptest.NewRequest(http.MethodGet, testPrefix+path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	rec := serve(r, httptest.NewRequest(http.MethodGet, testPrefix+"/tutors/404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

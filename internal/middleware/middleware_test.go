package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	"github.com/noah-isme/tutor-directory-api/internal/service"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
	"github.com/noah-isme/tutor-directory-api/pkg/middleware/requestid"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func adminRouter(role string) *gin.Engine {
	r := gin.New()
	validator := stubValidator{claims: &models.JWTClaims{Username: "admin", Role: role}}
	r.GET("/admin", JWT(validator), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		claims, ok := AdminClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Username)
	})
	return r
}

func TestJWTGuard(t *testing.T) {
	tests := []struct {
		name   string
		header string
		role   string
		status int
	}{
		{name: "missing header", header: "", role: models.RoleAdmin, status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", role: models.RoleAdmin, status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", role: models.RoleAdmin, status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", role: models.RoleAdmin, status: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer good", role: "VIEWER", status: http.StatusForbidden},
		{name: "admin", header: "bearer good", role: models.RoleAdmin, status: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			adminRouter(tc.role).ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRequireRoleWithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResponseMeta(t *testing.T) {
	var meta map[string]interface{}
	r := gin.New()
	r.Use(requestid.Middleware(), WithResponseMeta())
	r.GET("/tutors", func(c *gin.Context) {
		SetCacheHit(c, true)
		SetMeta(c, "total_results", 3)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/tutors", nil)
	req.Header.Set(requestid.Header, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, meta)
	assert.Equal(t, true, meta[MetaCacheHit])
	assert.Equal(t, 3, meta["total_results"])
	assert.Equal(t, "req-42", meta[MetaRequestID])
	assert.Contains(t, meta, MetaProcessingTime)
}

func TestExtractMetaWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))
	SetCacheHit(c, false)
	assert.Equal(t, false, ExtractMeta(c)["cache_hit"])
}

func TestMetricsMiddlewareLabelsRouteTemplate(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/tutors/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/tutors/1", "/tutors/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count, err := testutil.GatherAndCount(metrics.Registry(), "tutor_directory_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, uint64(3), metrics.Snapshot().RequestsTotal)
}

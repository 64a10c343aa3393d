package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-directory-api/internal/models"
)

func TestListingCacheKeyCanonical(t *testing.T) {
	a := models.DefaultFilterState()
	a.SelectedLevel = "ثانوي"
	b := a
	b.MinRating = 0

	assert.Equal(t, ListingCacheKey("v1", a), ListingCacheKey("v1", b))
	assert.True(t, strings.HasPrefix(ListingCacheKey("v1", a), "listing:"))
	assert.NotEqual(t, ListingCacheKey("v1", a), ListingCacheKey("v2", a))
	assert.NotEqual(t, ListingCacheKey("v1", a), ListingCacheKey("v1", models.DefaultFilterState()))
	assert.Equal(t, "dashboard:v1", DashboardCacheKey("v1"))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, 0, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k", 1, 0))
	hit, err := svc.Get(context.Background(), "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.entries)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out []string
	hit, err := svc.Get(ctx, "listing:x", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "listing:x", []string{"1"}, 0))
	assert.Equal(t, time.Minute, repo.ttls["listing:x"])

	hit, err = svc.Get(ctx, "listing:x", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"1"}, out)

	require.NoError(t, svc.Invalidate(ctx, "listing:*"))
	assert.Empty(t, repo.entries)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 1e-9)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest("GET", "/tutors", 200, time.Millisecond)
	m.ObserveFilterPass(models.SortByName, 3, time.Millisecond)
	m.RecordSubmission(FormContact, true)
	assert.Nil(t, m.Registry())
	assert.Equal(t, models.SystemMetrics{}, m.Snapshot())
}

func TestMetricsServiceFilterPass(t *testing.T) {
	m := NewMetricsService()
	m.ObserveFilterPass("bogus", 2, time.Millisecond)
	m.ObserveFilterPass(models.SortByNewest, 0, time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	sorts := map[string]bool{}
	for _, family := range families {
		if family.GetName() != "tutor_directory_filter_apply_duration_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				sorts[label.GetValue()] = true
			}
		}
	}
	assert.Equal(t, map[string]bool{"none": true, models.SortByNewest: true}, sorts)
	assert.Equal(t, uint64(2), m.Snapshot().FilterRuns)
}

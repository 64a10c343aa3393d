package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

func newTestTutorService(catalog *fakeCatalog, cache *memoryCache) *TutorService {
	var cacheSvc *CacheService
	if cache != nil {
		cacheSvc = NewCacheService(cache, NewMetricsService(), time.Minute, nil, true)
	}
	return NewTutorService(catalog, cacheSvc, NewMetricsService(), nil, TutorServiceConfig{CacheTTL: 30 * time.Second})
}

func TestTutorServiceListAppliesQuery(t *testing.T) {
	svc := newTestTutorService(newFakeCatalog(), nil)

	listing, hit, err := svc.List(context.Background(), url.Values{"level": {"ثانوي"}, "sort": {"reviews"}, "page": {"2"}})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"t3", "t1"}, ids(listing.Tutors))
	assert.Equal(t, 1, listing.ActiveFilters)
	assert.Equal(t, "/tutors?level="+url.QueryEscape("ثانوي")+"&sort=reviews", listing.Location)
}

func TestTutorServiceListMalformedRating(t *testing.T) {
	svc := newTestTutorService(newFakeCatalog(), nil)

	listing, _, err := svc.List(context.Background(), url.Values{"rating": {"abc"}})
	require.NoError(t, err)
	assert.Len(t, listing.Tutors, 4)
	assert.Equal(t, "/tutors", listing.Location)
	assert.Zero(t, listing.ActiveFilters)
}

func TestTutorServiceListUsesCacheByCanonicalQuery(t *testing.T) {
	catalog := newFakeCatalog()
	cache := newMemoryCache()
	svc := newTestTutorService(catalog, cache)
	ctx := context.Background()

	first, hit, err := svc.List(ctx, url.Values{"online": {"true"}})
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.List(ctx, url.Values{"online": {"true"}, "sort": {"rating"}, "utm": {"x"}})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, ids(first.Tutors), ids(second.Tutors))
	assert.Equal(t, 1, catalog.listCalls)
	assert.Equal(t, 30*time.Second, cache.ttls[ListingCacheKey("v1", first.Filters)])

	catalog.version = "v2"
	_, hit, err = svc.List(ctx, url.Values{"online": {"true"}})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, catalog.listCalls)
}

func TestTutorServiceListCachesEmptyResults(t *testing.T) {
	cache := newMemoryCache()
	svc := newTestTutorService(newFakeCatalog(), cache)
	ctx := context.Background()

	_, _, err := svc.List(ctx, url.Values{"search": {"nothing"}})
	require.NoError(t, err)
	listing, hit, err := svc.List(ctx, url.Values{"search": {"nothing"}})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.NotNil(t, listing.Tutors)
	assert.Empty(t, listing.Tutors)
}

func TestTutorServiceListCatalogFailure(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.err = errors.New("db down")
	svc := newTestTutorService(catalog, nil)

	_, _, err := svc.List(context.Background(), url.Values{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestTutorServiceReplay(t *testing.T) {
	svc := newTestTutorService(newFakeCatalog(), nil)

	resp, err := svc.Replay(context.Background(), dto.FilterSessionRequest{
		Query: "?search=ا&rating=abc",
		Ops: []dto.FilterOp{
			{Op: dto.FilterOpSet, Key: "minRating", Value: 4.5},
			{Op: dto.FilterOpSet, Key: "minRating", Value: 4.5},
			{Op: dto.FilterOpSet, Key: "sortBy", Value: "name"},
			{Op: dto.FilterOpRemove, Key: "sortBy"},
			{Op: dto.FilterOpRemove, Key: "searchTerm"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Propagations)
	assert.Equal(t, models.FilterState{MinRating: 4.5, SortBy: models.SortByName}, resp.Filters)
	assert.Equal(t, "/tutors?rating=4.5&sort=name", resp.Location)
	assert.Equal(t, 1, resp.ActiveFilters)
	assert.Equal(t, []string{"t1", "t2"}, ids(resp.Tutors))
	assert.Equal(t, 2, resp.TotalResults)
}

func TestTutorServiceReplayClearAll(t *testing.T) {
	svc := newTestTutorService(newFakeCatalog(), nil)

	resp, err := svc.Replay(context.Background(), dto.FilterSessionRequest{
		Query: "online=true&location=القاهرة",
		Ops:   []dto.FilterOp{{Op: dto.FilterOpClear}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFilterState(), resp.Filters)
	assert.Equal(t, "/tutors", resp.Location)
	assert.Equal(t, []string{"t2", "t1", "t3", "t4"}, ids(resp.Tutors))
}

func TestTutorServiceReplayWithoutOpsUsesImportedState(t *testing.T) {
	svc := newTestTutorService(newFakeCatalog(), nil)

	resp, err := svc.Replay(context.Background(), dto.FilterSessionRequest{Query: "location=القاهرة"})
	require.NoError(t, err)
	assert.Zero(t, resp.Propagations)
	assert.Equal(t, []string{"t1", "t4"}, ids(resp.Tutors))
}

func TestTutorServiceReplayRejectsBadOps(t *testing.T) {
	svc := newTestTutorService(newFakeCatalog(), nil)

	_, err := svc.Replay(context.Background(), dto.FilterSessionRequest{
		Ops: []dto.FilterOp{
			{Op: dto.FilterOpSet, Key: "searchTerm", Value: "x"},
			{Op: dto.FilterOpSet, Key: "price", Value: 10},
		},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "ops[1]", appErr.Details[0].Field)

	_, err = svc.Replay(context.Background(), dto.FilterSessionRequest{
		Ops: []dto.FilterOp{{Op: dto.FilterOpSet, Key: "onlineOnly", Value: "true"}},
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTutorServiceGet(t *testing.T) {
	svc := newTestTutorService(newFakeCatalog(), nil)

	profile, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "أحمد محمد", profile.Name)
	require.Len(t, profile.Reviews, 1)
	assert.Equal(t, "r1", profile.Reviews[0].ID)

	_, err = svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestListingCacheKeyIsStructural(t *testing.T) {
	a := models.FilterState{SearchTerm: "x", SortBy: models.SortByRating}
	b := models.FilterState{SearchTerm: "x", SortBy: models.SortByRating}
	assert.Equal(t, ListingCacheKey("v1", a), ListingCacheKey("v1", b))
	assert.NotEqual(t, ListingCacheKey("v1", a), ListingCacheKey("v2", a))
	b.OnlineOnly = true
	assert.NotEqual(t, ListingCacheKey("v1", a), ListingCacheKey("v1", b))
}

package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

// CatalogRepository is the read-only source of directory data.
type CatalogRepository interface {
	Version(ctx context.Context) (string, error)
	ListTutors(ctx context.Context) ([]models.Tutor, error)
	FindTutor(ctx context.Context, id string) (*models.Tutor, error)
	ListReviews(ctx context.Context, tutorID string) ([]models.Review, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListLevels(ctx context.Context) ([]models.EducationLevel, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
}

// TutorServiceConfig tunes listing behaviour.
type TutorServiceConfig struct {
	CacheTTL time.Duration
}

// TutorService serves filtered tutor listings and profiles.
type TutorService struct {
	catalog CatalogRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     TutorServiceConfig
}

// NewTutorService constructs a TutorService. cache and metrics may be nil.
func NewTutorService(catalog CatalogRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg TutorServiceConfig) *TutorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TutorService{catalog: catalog, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// List imports values once and returns the matching listing. The bool reports
// whether the results came from cache.
func (s *TutorService) List(ctx context.Context, values url.Values) (*dto.TutorListing, bool, error) {
	sync := NewQuerySync()
	state := sync.Import(values)

	tutors, hit, err := s.Filter(ctx, state)
	if err != nil {
		return nil, false, err
	}
	return &dto.TutorListing{
		Filters:       state,
		Location:      sync.Location(),
		ActiveFilters: state.ActiveCount(),
		Tutors:        tutors,
	}, hit, nil
}

// Filter applies state to the current catalog, memoised per catalog version
// and canonical query.
func (s *TutorService) Filter(ctx context.Context, state models.FilterState) ([]models.Tutor, bool, error) {
	version, err := s.catalog.Version(ctx)
	if err != nil {
		return nil, false, s.internal(err, "failed to read catalog version")
	}

	key := ListingCacheKey(version, state)
	var cached []models.Tutor
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		if cached == nil {
			cached = []models.Tutor{}
		}
		return cached, true, nil
	}

	tutors, err := s.loadTutors(ctx)
	if err != nil {
		return nil, false, err
	}
	result := s.apply(tutors, state)
	if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("listing not cached", zap.Error(err))
	}
	return result, false, nil
}

// Replay imports req.Query once, applies req.Ops through a filter session and
// reports the final state together with its results.
func (s *TutorService) Replay(ctx context.Context, req dto.FilterSessionRequest) (*dto.FilterSessionResponse, error) {
	tutors, err := s.loadTutors(ctx)
	if err != nil {
		return nil, err
	}

	sync := NewQuerySync()
	initial := sync.ImportString(req.Query)
	results := &filterResults{run: func(state models.FilterState) []models.Tutor { return s.apply(tutors, state) }}
	results.FiltersChanged(initial)

	session := NewFilterSession(initial, results, sync)
	for i, op := range req.Ops {
		if err := applyFilterOp(session, op); err != nil {
			appErr := appErrors.FromError(err)
			return nil, appErrors.WithDetails(appErr, []appErrors.FieldError{{
				Field:   "ops[" + strconv.Itoa(i) + "]",
				Rule:    op.Op,
				Message: appErr.Message,
			}})
		}
	}

	return &dto.FilterSessionResponse{
		Filters:       session.State(),
		Location:      sync.Location(),
		ActiveFilters: session.ActiveCount(),
		Propagations:  session.Propagations(),
		TotalResults:  len(results.latest),
		Tutors:        results.latest,
	}, nil
}

// Get returns a tutor profile with reviews.
func (s *TutorService) Get(ctx context.Context, id string) (*models.TutorProfile, error) {
	tutor, err := s.catalog.FindTutor(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, s.internal(err, "failed to load tutor")
	}
	reviews, err := s.catalog.ListReviews(ctx, id)
	if err != nil {
		return nil, s.internal(err, "failed to load reviews")
	}
	return &models.TutorProfile{Tutor: *tutor, Reviews: reviews}, nil
}

func (s *TutorService) loadTutors(ctx context.Context) ([]models.Tutor, error) {
	start := time.Now()
	tutors, err := s.catalog.ListTutors(ctx)
	s.metrics.ObserveCatalogQuery("list_tutors", time.Since(start))
	if err != nil {
		return nil, s.internal(err, "failed to load tutors")
	}
	return tutors, nil
}

func (s *TutorService) apply(tutors []models.Tutor, state models.FilterState) []models.Tutor {
	start := time.Now()
	result := ApplyFilters(tutors, state)
	s.metrics.ObserveFilterPass(state.SortBy, len(result), time.Since(start))
	return result
}

func (s *TutorService) internal(err error, message string) error {
	s.logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// filterResults re-runs the filter engine on every propagated state.
type filterResults struct {
	run    func(models.FilterState) []models.Tutor
	latest []models.Tutor
}

func (r *filterResults) FiltersChanged(state models.FilterState) {
	r.latest = r.run(state)
}

func applyFilterOp(session *FilterSession, op dto.FilterOp) error {
	switch op.Op {
	case dto.FilterOpClear:
		session.ClearAll()
		return nil
	case dto.FilterOpSet, dto.FilterOpRemove:
		key, err := models.ParseFilterKey(op.Key)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		if op.Op == dto.FilterOpRemove {
			return session.RemoveOne(key)
		}
		return session.Update(key, op.Value)
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown filter op "+op.Op)
	}
}

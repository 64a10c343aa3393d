package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

type inboxCounter interface {
	CountPendingApplications(ctx context.Context) (int, error)
	CountUnreadMessages(ctx context.Context) (int, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the admin dashboard.
type DashboardService struct {
	catalog CatalogRepository
	inbox   inboxCounter
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Catalog CatalogRepository
	Inbox   inboxCounter
	Cache   *CacheService
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		catalog: params.Catalog,
		inbox:   params.Inbox,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Summary returns the dashboard and whether the catalog part came from cache.
// Inbox counters are always read live.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	version, err := s.catalog.Version(ctx)
	if err != nil {
		return nil, false, s.internal(err, "failed to read catalog version")
	}

	key := DashboardCacheKey(version)
	var summary models.DashboardSummary
	hit, err := s.cache.Get(ctx, key, &summary)
	if err != nil {
		hit = false
	}
	if !hit {
		composed, err := s.composeCatalogSummary(ctx)
		if err != nil {
			return nil, false, err
		}
		summary = *composed
		if err := s.cache.Set(ctx, key, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	if s.inbox != nil {
		if summary.PendingApplications, err = s.inbox.CountPendingApplications(ctx); err != nil {
			return nil, false, s.internal(err, "failed to count applications")
		}
		if summary.UnreadMessages, err = s.inbox.CountUnreadMessages(ctx); err != nil {
			return nil, false, s.internal(err, "failed to count messages")
		}
	}
	if s.metrics != nil {
		snapshot := s.metrics.Snapshot()
		summary.System = &snapshot
	}
	return &summary, hit, nil
}

func (s *DashboardService) composeCatalogSummary(ctx context.Context) (*models.DashboardSummary, error) {
	tutors, err := s.catalog.ListTutors(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load tutors")
	}
	subjects, err := s.catalog.ListSubjects(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load subjects")
	}
	levels, err := s.catalog.ListLevels(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load education levels")
	}
	locations, err := s.catalog.ListLocations(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load locations")
	}

	totals := models.DashboardTotals{
		TotalTeachers:  len(tutors),
		TotalSubjects:  len(subjects),
		TotalLocations: len(locations),
	}
	var ratingSum float64
	for _, tutor := range tutors {
		if tutor.IsApproved {
			totals.ApprovedTeachers++
		} else {
			totals.PendingTeachers++
		}
		if tutor.IsOnline {
			totals.OnlineTeachers++
		}
		totals.TotalReviews += tutor.ReviewsCount
		ratingSum += tutor.Rating
	}
	if len(tutors) > 0 {
		totals.AverageRating = ratingSum / float64(len(tutors))
	}

	summary := &models.DashboardSummary{
		Totals:     totals,
		BySubject:  make([]models.NamedCount, 0, len(subjects)),
		ByLevel:    make([]models.NamedCount, 0, len(levels)),
		ByLocation: make([]models.NamedCount, 0, len(locations)),
	}
	for _, subject := range subjects {
		state := models.DefaultFilterState()
		state.SelectedSubject = subject.Name
		summary.BySubject = append(summary.BySubject, models.NamedCount{Name: subject.Name, Count: countTutors(tutors, state)})
	}
	for _, level := range levels {
		state := models.DefaultFilterState()
		state.SelectedLevel = level.Name
		summary.ByLevel = append(summary.ByLevel, models.NamedCount{Name: level.Name, Count: countTutors(tutors, state)})
	}
	for _, location := range locations {
		state := models.DefaultFilterState()
		state.SelectedLocation = location.Name
		summary.ByLocation = append(summary.ByLocation, models.NamedCount{Name: location.Name, Count: countTutors(tutors, state)})
	}
	return summary, nil
}

func (s *DashboardService) internal(err error, message string) error {
	s.logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

// AllLevels is the level filter value meaning no restriction.
const AllLevels = "all"

// CatalogService serves the browsing pages built on the reference lists.
type CatalogService struct {
	catalog CatalogRepository
	logger  *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog CatalogRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{catalog: catalog, logger: logger}
}

// Subjects returns subjects matching filter grouped by education level. A
// subject appears at most once per level, and groups keep first-seen order.
func (s *CatalogService) Subjects(ctx context.Context, filter models.SubjectFilter) (*dto.SubjectListing, error) {
	subjects, err := s.catalog.ListSubjects(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load subjects")
	}
	tutors, err := s.catalog.ListTutors(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load tutors")
	}

	level := strings.TrimSpace(filter.Level)
	if level == AllLevels {
		level = ""
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	listing := &dto.SubjectListing{Groups: []dto.SubjectGroup{}}
	groupIndex := map[string]int{}
	seen := map[string]map[string]bool{}
	for _, subject := range subjects {
		if search != "" && !strings.Contains(strings.ToLower(subject.Name), search) {
			continue
		}
		if level != "" && !contains(subject.EducationLevels, level) {
			continue
		}
		listing.TotalSubjects++

		for _, lvl := range subject.EducationLevels {
			if level != "" && lvl != level {
				continue
			}
			idx, ok := groupIndex[lvl]
			if !ok {
				idx = len(listing.Groups)
				groupIndex[lvl] = idx
				seen[lvl] = map[string]bool{}
				listing.Groups = append(listing.Groups, dto.SubjectGroup{Level: lvl, Subjects: []dto.SubjectSummary{}})
			}
			if seen[lvl][subject.ID] {
				continue
			}
			seen[lvl][subject.ID] = true

			state := models.DefaultFilterState()
			state.SelectedSubject = subject.Name
			state.SelectedLevel = lvl
			listing.Groups[idx].Subjects = append(listing.Groups[idx].Subjects, dto.SubjectSummary{
				Subject:    subject,
				TutorCount: countTutors(tutors, state),
				Listing:    dto.TutorsLocation(state),
			})
		}
	}
	return listing, nil
}

// Levels returns every education level with tutor counts per level and per
// subject taught at that level.
func (s *CatalogService) Levels(ctx context.Context) ([]dto.LevelSummary, error) {
	levels, err := s.catalog.ListLevels(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load education levels")
	}
	tutors, err := s.catalog.ListTutors(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load tutors")
	}

	out := make([]dto.LevelSummary, 0, len(levels))
	for _, level := range levels {
		state := models.DefaultFilterState()
		state.SelectedLevel = level.Name
		summary := dto.LevelSummary{
			EducationLevel: level,
			TutorCount:     countTutors(tutors, state),
			SubjectCounts:  make([]models.NamedCount, 0, len(level.Subjects)),
			Listing:        dto.TutorsLocation(state),
		}
		for _, subject := range level.Subjects {
			byLevel := state
			byLevel.SelectedSubject = subject
			summary.SubjectCounts = append(summary.SubjectCounts, models.NamedCount{Name: subject, Count: countTutors(tutors, byLevel)})
		}
		out = append(out, summary)
	}
	return out, nil
}

// Locations returns every location with its tutor count.
func (s *CatalogService) Locations(ctx context.Context) ([]dto.LocationSummary, error) {
	locations, err := s.catalog.ListLocations(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load locations")
	}
	tutors, err := s.catalog.ListTutors(ctx)
	if err != nil {
		return nil, s.internal(err, "failed to load tutors")
	}

	out := make([]dto.LocationSummary, 0, len(locations))
	for _, location := range locations {
		state := models.DefaultFilterState()
		state.SelectedLocation = location.Name
		out = append(out, dto.LocationSummary{
			Location:   location,
			TutorCount: countTutors(tutors, state),
			Listing:    dto.TutorsLocation(state),
		})
	}
	return out, nil
}

func (s *CatalogService) internal(err error, message string) error {
	s.logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// countTutors counts tutors passing every predicate of state.
func countTutors(tutors []models.Tutor, state models.FilterState) int {
	search := strings.ToLower(state.SearchTerm)
	count := 0
	for _, tutor := range tutors {
		if matchesFilters(tutor, state, search) {
			count++
		}
	}
	return count
}

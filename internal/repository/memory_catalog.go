package repository

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

//go:embed seed/catalog.yaml
var seedCatalog []byte

// catalogDocument is the YAML layout of a catalog file.
type catalogDocument struct {
	Subjects        []models.Subject        `yaml:"subjects"`
	EducationLevels []models.EducationLevel `yaml:"educationLevels"`
	Locations       []models.Location       `yaml:"locations"`
	Tutors          []models.Tutor          `yaml:"tutors"`
	Reviews         []models.Review         `yaml:"reviews"`
}

// MemoryCatalog serves an immutable catalog loaded at startup. Every read
// returns copies.
type MemoryCatalog struct {
	doc     catalogDocument
	index   map[string]int
	version string
}

// NewSeedCatalog loads the catalog embedded in the binary.
func NewSeedCatalog() (*MemoryCatalog, error) {
	return NewMemoryCatalog(seedCatalog)
}

// LoadMemoryCatalog reads a catalog from a YAML file.
func LoadMemoryCatalog(path string) (*MemoryCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return NewMemoryCatalog(raw)
}

// NewMemoryCatalog parses and validates a YAML catalog.
func NewMemoryCatalog(raw []byte) (*MemoryCatalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	index := make(map[string]int, len(doc.Tutors))
	for i, tutor := range doc.Tutors {
		if tutor.ID == "" {
			return nil, fmt.Errorf("tutor at position %d has no id", i)
		}
		if _, dup := index[tutor.ID]; dup {
			return nil, fmt.Errorf("duplicate tutor id %q", tutor.ID)
		}
		if tutor.Rating < models.MinRatingFloor || tutor.Rating > models.MinRatingCeil {
			return nil, fmt.Errorf("tutor %q rating %v outside [0,5]", tutor.ID, tutor.Rating)
		}
		if tutor.ReviewsCount < 0 {
			return nil, fmt.Errorf("tutor %q has negative review count", tutor.ID)
		}
		index[tutor.ID] = i
	}

	sum := sha256.Sum256(raw)
	return &MemoryCatalog{doc: doc, index: index, version: hex.EncodeToString(sum[:8])}, nil
}

// Version identifies the loaded catalog content.
func (c *MemoryCatalog) Version(context.Context) (string, error) {
	return "mem-" + c.version, nil
}

// ListTutors returns every tutor in catalog order.
func (c *MemoryCatalog) ListTutors(context.Context) ([]models.Tutor, error) {
	tutors := make([]models.Tutor, 0, len(c.doc.Tutors))
	for _, tutor := range c.doc.Tutors {
		tutors = append(tutors, tutor.Clone())
	}
	return tutors, nil
}

// FindTutor returns the tutor with id.
func (c *MemoryCatalog) FindTutor(_ context.Context, id string) (*models.Tutor, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
	}
	tutor := c.doc.Tutors[i].Clone()
	return &tutor, nil
}

// ListReviews returns the reviews written for a tutor.
func (c *MemoryCatalog) ListReviews(_ context.Context, tutorID string) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	for _, review := range c.doc.Reviews {
		if review.TutorID == tutorID {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

// ListSubjects returns the subject reference list.
func (c *MemoryCatalog) ListSubjects(context.Context) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0, len(c.doc.Subjects))
	for _, subject := range c.doc.Subjects {
		subject.EducationLevels = append([]string(nil), subject.EducationLevels...)
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

// ListLevels returns the education level reference list.
func (c *MemoryCatalog) ListLevels(context.Context) ([]models.EducationLevel, error) {
	levels := make([]models.EducationLevel, 0, len(c.doc.EducationLevels))
	for _, level := range c.doc.EducationLevels {
		level.Subjects = append([]string(nil), level.Subjects...)
		levels = append(levels, level)
	}
	return levels, nil
}

// ListLocations returns the location reference list.
func (c *MemoryCatalog) ListLocations(context.Context) ([]models.Location, error) {
	return append([]models.Location{}, c.doc.Locations...), nil
}

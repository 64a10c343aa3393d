package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

const tutorColumns = `id, name, image, subjects, education_levels, locations, description, teaching_method,
contact_whatsapp, contact_email, rating, reviews_count, is_online, is_approved, join_date`

type tutorRow struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Image           sql.NullString `db:"image"`
	Subjects        pq.StringArray `db:"subjects"`
	EducationLevels pq.StringArray `db:"education_levels"`
	Locations       pq.StringArray `db:"locations"`
	Description     string         `db:"description"`
	TeachingMethod  string         `db:"teaching_method"`
	ContactWhatsapp sql.NullString `db:"contact_whatsapp"`
	ContactEmail    sql.NullString `db:"contact_email"`
	Rating          float64        `db:"rating"`
	ReviewsCount    int            `db:"reviews_count"`
	IsOnline        bool           `db:"is_online"`
	IsApproved      bool           `db:"is_approved"`
	JoinDate        time.Time      `db:"join_date"`
}

func (r tutorRow) model() models.Tutor {
	return models.Tutor{
		ID:              r.ID,
		Name:            r.Name,
		Image:           r.Image.String,
		Subjects:        []string(r.Subjects),
		EducationLevels: []string(r.EducationLevels),
		Locations:       []string(r.Locations),
		Description:     r.Description,
		TeachingMethod:  r.TeachingMethod,
		ContactWhatsapp: r.ContactWhatsapp.String,
		ContactEmail:    r.ContactEmail.String,
		Rating:          r.Rating,
		ReviewsCount:    r.ReviewsCount,
		IsOnline:        r.IsOnline,
		IsApproved:      r.IsApproved,
		JoinDate:        r.JoinDate.Format(models.JoinDateLayout),
	}
}

type reviewRow struct {
	ID          string    `db:"id"`
	TutorID     string    `db:"tutor_id"`
	StudentName string    `db:"student_name"`
	Rating      float64   `db:"rating"`
	Comment     string    `db:"comment"`
	Date        time.Time `db:"reviewed_on"`
}

type subjectRow struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	EducationLevels pq.StringArray `db:"education_levels"`
}

type levelRow struct {
	ID       string         `db:"id"`
	Name     string         `db:"name"`
	Subjects pq.StringArray `db:"subjects"`
}

// PostgresCatalog reads the directory from Postgres. It never writes.
type PostgresCatalog struct {
	db *sqlx.DB
}

// NewPostgresCatalog creates a catalog over db.
func NewPostgresCatalog(db *sqlx.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// Version changes whenever a tutor row is added, removed or updated.
func (r *PostgresCatalog) Version(ctx context.Context) (string, error) {
	const query = `SELECT COUNT(*) AS total, COALESCE(MAX(updated_at), 'epoch'::timestamptz) AS updated FROM tutors`
	var row struct {
		Total   int       `db:"total"`
		Updated time.Time `db:"updated"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return "", fmt.Errorf("catalog version: %w", err)
	}
	return fmt.Sprintf("pg-%d-%d", row.Total, row.Updated.UnixNano()), nil
}

// ListTutors returns every tutor ordered by insertion.
func (r *PostgresCatalog) ListTutors(ctx context.Context) ([]models.Tutor, error) {
	query := fmt.Sprintf("SELECT %s FROM tutors ORDER BY position ASC, id ASC", tutorColumns)
	var rows []tutorRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	tutors := make([]models.Tutor, 0, len(rows))
	for _, row := range rows {
		tutors = append(tutors, row.model())
	}
	return tutors, nil
}

// FindTutor returns a tutor by id.
func (r *PostgresCatalog) FindTutor(ctx context.Context, id string) (*models.Tutor, error) {
	query := fmt.Sprintf("SELECT %s FROM tutors WHERE id = $1", tutorColumns)
	var row tutorRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
		}
		return nil, fmt.Errorf("find tutor: %w", err)
	}
	tutor := row.model()
	return &tutor, nil
}

// ListReviews returns a tutor's reviews, newest first.
func (r *PostgresCatalog) ListReviews(ctx context.Context, tutorID string) ([]models.Review, error) {
	const query = `SELECT id, tutor_id, student_name, rating, comment, reviewed_on FROM reviews WHERE tutor_id = $1 ORDER BY reviewed_on DESC`
	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, tutorID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, models.Review{
			ID:          row.ID,
			TutorID:     row.TutorID,
			StudentName: row.StudentName,
			Rating:      row.Rating,
			Comment:     row.Comment,
			Date:        row.Date.Format(models.JoinDateLayout),
		})
	}
	return reviews, nil
}

// ListSubjects returns the subject reference list.
func (r *PostgresCatalog) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, name, education_levels FROM subjects ORDER BY position ASC, id ASC`
	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	subjects := make([]models.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, models.Subject{ID: row.ID, Name: row.Name, EducationLevels: []string(row.EducationLevels)})
	}
	return subjects, nil
}

// ListLevels returns the education level reference list.
func (r *PostgresCatalog) ListLevels(ctx context.Context) ([]models.EducationLevel, error) {
	const query = `SELECT id, name, subjects FROM education_levels ORDER BY position ASC, id ASC`
	var rows []levelRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list education levels: %w", err)
	}
	levels := make([]models.EducationLevel, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, models.EducationLevel{ID: row.ID, Name: row.Name, Subjects: []string(row.Subjects)})
	}
	return levels, nil
}

// ListLocations returns the location reference list.
func (r *PostgresCatalog) ListLocations(ctx context.Context) ([]models.Location, error) {
	const query = `SELECT id, name, type FROM locations ORDER BY position ASC, id ASC`
	var rows []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
		Type string `db:"type"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	locations := make([]models.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, models.Location{ID: row.ID, Name: row.Name, Type: models.LocationType(row.Type)})
	}
	return locations, nil
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tutor-directory-api/internal/models"
)

func normalizeInboxFilter(filter models.InboxFilter) (page, size, offset int) {
	page = filter.Page
	if page < 1 {
		page = 1
	}
	size = filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size, (page - 1) * size
}

// MemorySubmissionRepository keeps submissions in process memory. Contents are
// lost on restart.
type MemorySubmissionRepository struct {
	mu           sync.RWMutex
	applications []models.TeacherApplication
	messages     []models.ContactMessage
}

// NewMemorySubmissionRepository creates an empty inbox.
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{}
}

// CreateApplication stores a tutor application.
func (r *MemorySubmissionRepository) CreateApplication(_ context.Context, app *models.TeacherApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applications = append(r.applications, *app)
	return nil
}

// ListApplications returns applications newest first.
func (r *MemorySubmissionRepository) ListApplications(_ context.Context, filter models.InboxFilter) ([]models.TeacherApplication, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, size, offset := normalizeInboxFilter(filter)
	total := len(r.applications)
	out := make([]models.TeacherApplication, 0, size)
	for i := total - 1 - offset; i >= 0 && len(out) < size; i-- {
		out = append(out, r.applications[i])
	}
	return out, total, nil
}

// CountPendingApplications counts applications awaiting review.
func (r *MemorySubmissionRepository) CountPendingApplications(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, app := range r.applications {
		if app.Status == models.ApplicationPending {
			count++
		}
	}
	return count, nil
}

// CreateMessage stores a contact message.
func (r *MemorySubmissionRepository) CreateMessage(_ context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *msg)
	return nil
}

// ListMessages returns contact messages newest first.
func (r *MemorySubmissionRepository) ListMessages(_ context.Context, filter models.InboxFilter) ([]models.ContactMessage, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, size, offset := normalizeInboxFilter(filter)
	total := len(r.messages)
	out := make([]models.ContactMessage, 0, size)
	for i := total - 1 - offset; i >= 0 && len(out) < size; i-- {
		out = append(out, r.messages[i])
	}
	return out, total, nil
}

// CountUnreadMessages counts messages not yet opened.
func (r *MemorySubmissionRepository) CountUnreadMessages(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, msg := range r.messages {
		if !msg.IsRead {
			count++
		}
	}
	return count, nil
}

// PostgresSubmissionRepository persists submissions with sqlx.
type PostgresSubmissionRepository struct {
	db *sqlx.DB
}

// NewPostgresSubmissionRepository creates a Postgres-backed inbox.
func NewPostgresSubmissionRepository(db *sqlx.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

type applicationRow struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Phone           string         `db:"phone"`
	Email           string         `db:"email"`
	Subjects        pq.StringArray `db:"subjects"`
	EducationLevels pq.StringArray `db:"education_levels"`
	Locations       pq.StringArray `db:"locations"`
	Image           *string        `db:"image"`
	Description     string         `db:"description"`
	TeachingMethod  string         `db:"teaching_method"`
	Status          string         `db:"status"`
	SubmittedAt     time.Time      `db:"submitted_at"`
}

func newApplicationRow(app *models.TeacherApplication) applicationRow {
	row := applicationRow{
		ID:              app.ID,
		Name:            app.Name,
		Phone:           app.Phone,
		Email:           app.Email,
		Subjects:        pq.StringArray(app.Subjects),
		EducationLevels: pq.StringArray(app.EducationLevels),
		Locations:       pq.StringArray(app.Locations),
		Description:     app.Description,
		TeachingMethod:  app.TeachingMethod,
		Status:          string(app.Status),
		SubmittedAt:     app.SubmittedAt,
	}
	if app.Image != "" {
		image := app.Image
		row.Image = &image
	}
	return row
}

func (r applicationRow) model() models.TeacherApplication {
	app := models.TeacherApplication{
		ID:              r.ID,
		Name:            r.Name,
		Phone:           r.Phone,
		Email:           r.Email,
		Subjects:        []string(r.Subjects),
		EducationLevels: []string(r.EducationLevels),
		Locations:       []string(r.Locations),
		Description:     r.Description,
		TeachingMethod:  r.TeachingMethod,
		Status:          models.ApplicationStatus(r.Status),
		SubmittedAt:     r.SubmittedAt,
	}
	if r.Image != nil {
		app.Image = *r.Image
	}
	return app
}

type messageRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Subject   string    `db:"subject"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

// CreateApplication inserts a tutor application.
func (r *PostgresSubmissionRepository) CreateApplication(ctx context.Context, app *models.TeacherApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_applications (id, name, phone, email, subjects, education_levels, locations, image, description, teaching_method, status, submitted_at)
VALUES (:id, :name, :phone, :email, :subjects, :education_levels, :locations, :image, :description, :teaching_method, :status, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, newApplicationRow(app)); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// ListApplications pages through applications newest first.
func (r *PostgresSubmissionRepository) ListApplications(ctx context.Context, filter models.InboxFilter) ([]models.TeacherApplication, int, error) {
	_, size, offset := normalizeInboxFilter(filter)
	query := fmt.Sprintf(`SELECT id, name, phone, email, subjects, education_levels, locations, image, description, teaching_method, status, submitted_at
FROM teacher_applications ORDER BY submitted_at DESC LIMIT %d OFFSET %d`, size, offset)
	var rows []applicationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM teacher_applications`); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	apps := make([]models.TeacherApplication, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.model())
	}
	return apps, total, nil
}

// CountPendingApplications counts applications awaiting review.
func (r *PostgresSubmissionRepository) CountPendingApplications(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM teacher_applications WHERE status = $1`, string(models.ApplicationPending)); err != nil {
		return 0, fmt.Errorf("count pending applications: %w", err)
	}
	return count, nil
}

// CreateMessage inserts a contact message.
func (r *PostgresSubmissionRepository) CreateMessage(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	row := messageRow(*msg)
	const query = `INSERT INTO contact_messages (id, name, email, phone, subject, message, is_read, created_at)
VALUES (:id, :name, :email, :phone, :subject, :message, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListMessages pages through contact messages newest first.
func (r *PostgresSubmissionRepository) ListMessages(ctx context.Context, filter models.InboxFilter) ([]models.ContactMessage, int, error) {
	_, size, offset := normalizeInboxFilter(filter)
	query := fmt.Sprintf(`SELECT id, name, email, phone, subject, message, is_read, created_at
FROM contact_messages ORDER BY created_at DESC LIMIT %d OFFSET %d`, size, offset)
	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contact_messages`); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}
	messages := make([]models.ContactMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, models.ContactMessage(row))
	}
	return messages, total, nil
}

// CountUnreadMessages counts messages not yet opened.
func (r *PostgresSubmissionRepository) CountUnreadMessages(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM contact_messages WHERE is_read = FALSE`); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
	"github.com/noah-isme/tutor-directory-api/pkg/validation"
)

// Form labels used in logs and metrics.
const (
	FormApplication = "teacher_application"
	FormContact     = "contact"
)

// SubmissionRepository stores validated form submissions.
type SubmissionRepository interface {
	CreateApplication(ctx context.Context, app *models.TeacherApplication) error
	ListApplications(ctx context.Context, filter models.InboxFilter) ([]models.TeacherApplication, int, error)
	CountPendingApplications(ctx context.Context) (int, error)
	CreateMessage(ctx context.Context, msg *models.ContactMessage) error
	ListMessages(ctx context.Context, filter models.InboxFilter) ([]models.ContactMessage, int, error)
	CountUnreadMessages(ctx context.Context) (int, error)
}

// SubmissionService validates and records the public forms.
type SubmissionService struct {
	repo      SubmissionRepository
	validator *validation.Validator
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(repo SubmissionRepository, validator *validation.Validator, metrics *MetricsService, logger *zap.Logger) *SubmissionService {
	if validator == nil {
		validator = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{repo: repo, validator: validator, metrics: metrics, logger: logger, now: time.Now}
}

// ValidateApplication returns the field errors of form, or nil when valid.
func (s *SubmissionService) ValidateApplication(form models.TeacherApplicationForm) []appErrors.FieldError {
	return s.validator.Struct(form)
}

// ValidateContact returns the field errors of form, or nil when valid.
func (s *SubmissionService) ValidateContact(form models.ContactForm) []appErrors.FieldError {
	return s.validator.Struct(form)
}

// SubmitApplication stores a tutor registration as pending review.
func (s *SubmissionService) SubmitApplication(ctx context.Context, form models.TeacherApplicationForm) (*models.TeacherApplication, error) {
	if details := s.ValidateApplication(form); details != nil {
		s.metrics.RecordSubmission(FormApplication, false)
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid teacher application"), details)
	}

	app := &models.TeacherApplication{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(form.Name),
		Phone:           strings.TrimSpace(form.Phone),
		Email:           strings.ToLower(strings.TrimSpace(form.Email)),
		Subjects:        trimAll(form.Subjects),
		EducationLevels: trimAll(form.EducationLevels),
		Locations:       trimAll(form.Locations),
		Image:           strings.TrimSpace(form.Image),
		Description:     strings.TrimSpace(form.Description),
		TeachingMethod:  strings.TrimSpace(form.TeachingMethod),
		Status:          models.ApplicationPending,
		SubmittedAt:     s.now().UTC(),
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		s.logger.Error("failed to store teacher application", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store application")
	}

	s.metrics.RecordSubmission(FormApplication, true)
	s.logger.Info("teacher application received",
		zap.String("application_id", app.ID),
		zap.String("name", app.Name),
		zap.Strings("subjects", app.Subjects),
		zap.Strings("locations", app.Locations),
	)
	return app, nil
}

// SubmitContact stores a contact message as unread.
func (s *SubmissionService) SubmitContact(ctx context.Context, form models.ContactForm) (*models.ContactMessage, error) {
	if details := s.ValidateContact(form); details != nil {
		s.metrics.RecordSubmission(FormContact, false)
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid contact message"), details)
	}

	msg := &models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(form.Name),
		Email:     strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:     strings.TrimSpace(form.Phone),
		Subject:   strings.TrimSpace(form.Subject),
		Message:   strings.TrimSpace(form.Message),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		s.logger.Error("failed to store contact message", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store message")
	}

	s.metrics.RecordSubmission(FormContact, true)
	s.logger.Info("contact message received", zap.String("message_id", msg.ID), zap.String("subject", msg.Subject))
	return msg, nil
}

// ListApplications pages through stored applications.
func (s *SubmissionService) ListApplications(ctx context.Context, filter models.InboxFilter) ([]models.TeacherApplication, *models.Pagination, error) {
	filter = normalizeInbox(filter)
	apps, total, err := s.repo.ListApplications(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListMessages pages through stored contact messages.
func (s *SubmissionService) ListMessages(ctx context.Context, filter models.InboxFilter) ([]models.ContactMessage, *models.Pagination, error) {
	filter = normalizeInbox(filter)
	messages, total, err := s.repo.ListMessages(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	return messages, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

func normalizeInbox(filter models.InboxFilter) models.InboxFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return filter
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

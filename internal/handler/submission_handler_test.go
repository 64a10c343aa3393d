package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

type fakeSubmissionSrv struct {
	applyErr   error
	lastForm   models.TeacherApplicationForm
	lastFilter models.InboxFilter
}

func (f *fakeSubmissionSrv) SubmitApplication(_ context.Context, form models.TeacherApplicationForm) (*models.TeacherApplication, error) {
	f.lastForm = form
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	return &models.TeacherApplication{ID: "app-1", Name: form.Name, Status: models.ApplicationPending}, nil
}

func (f *fakeSubmissionSrv) SubmitContact(_ context.Context, form models.ContactForm) (*models.ContactMessage, error) {
	return &models.ContactMessage{ID: "msg-1", Subject: form.Subject}, nil
}

func (f *fakeSubmissionSrv) ListApplications(_ context.Context, filter models.InboxFilter) ([]models.TeacherApplication, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.TeacherApplication{{ID: "app-1"}}, &models.Pagination{Page: 2, PageSize: 5, TotalCount: 6}, nil
}

func (f *fakeSubmissionSrv) ListMessages(_ context.Context, filter models.InboxFilter) ([]models.ContactMessage, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.ContactMessage{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func TestSubmissionHandlerApply(t *testing.T) {
	srv := &fakeSubmissionSrv{}
	c, rec := newTestContext(http.MethodPost, "/applications", jsonBody(`{"name":"منى","subjects":["علوم"]}`))

	NewSubmissionHandler(srv).Apply(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "منى", srv.lastForm.Name)
	assert.Equal(t, []string{"علوم"}, srv.lastForm.Subjects)
}

func TestSubmissionHandlerApplyValidationError(t *testing.T) {
	srv := &fakeSubmissionSrv{applyErr: appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid teacher application"),
		[]appErrors.FieldError{{Field: "email", Rule: "required"}, {Field: "phone", Rule: "required"}})}
	c, rec := newTestContext(http.MethodPost, "/applications", jsonBody(`{"name":"منى"}`))

	NewSubmissionHandler(srv).Apply(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.Len(t, envelope.Error.Details, 2)
	assert.Equal(t, "email", envelope.Error.Details[0].Field)
}

func TestSubmissionHandlerRejectsMalformedJSON(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/contact", jsonBody(`{"name":`))

	NewSubmissionHandler(&fakeSubmissionSrv{}).Contact(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmissionHandlerContact(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/contact", jsonBody(`{"subject":"استفسار"}`))

	NewSubmissionHandler(&fakeSubmissionSrv{}).Contact(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var msg models.ContactMessage
	decodeData(t, decodeEnvelope(t, rec), &msg)
	assert.Equal(t, "استفسار", msg.Subject)
}

func TestSubmissionHandlerApplicationsPagination(t *testing.T) {
	srv := &fakeSubmissionSrv{}
	c, rec := newTestContext(http.MethodGet, "/admin/applications?page=2&page_size=5", nil)

	NewSubmissionHandler(srv).Applications(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.InboxFilter{Page: 2, PageSize: 5}, srv.lastFilter)
	assert.Equal(t, float64(6), decodeEnvelope(t, rec).Pagination["total_count"])
}

func TestSubmissionHandlerMessagesRejectsBadPage(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/admin/messages?page_size=500", nil)

	NewSubmissionHandler(&fakeSubmissionSrv{}).Messages(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

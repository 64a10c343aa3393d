package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	"github.com/noah-isme/tutor-directory-api/pkg/response"
)

type submissionService interface {
	SubmitApplication(ctx context.Context, form models.TeacherApplicationForm) (*models.TeacherApplication, error)
	SubmitContact(ctx context.Context, form models.ContactForm) (*models.ContactMessage, error)
	ListApplications(ctx context.Context, filter models.InboxFilter) ([]models.TeacherApplication, *models.Pagination, error)
	ListMessages(ctx context.Context, filter models.InboxFilter) ([]models.ContactMessage, *models.Pagination, error)
}

// SubmissionHandler accepts the public forms and lists them for the admin.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Apply godoc
// @Summary Register as a tutor
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body models.TeacherApplicationForm true "Application"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications [post]
func (h *SubmissionHandler) Apply(c *gin.Context) {
	var form models.TeacherApplicationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, bindError(err, "invalid application payload"))
		return
	}
	app, err := h.service.SubmitApplication(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// Contact godoc
// @Summary Send a contact message
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body models.ContactForm true "Message"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /contact [post]
func (h *SubmissionHandler) Contact(c *gin.Context) {
	var form models.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, bindError(err, "invalid contact payload"))
		return
	}
	msg, err := h.service.SubmitContact(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Applications godoc
// @Summary List tutor applications
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/applications [get]
func (h *SubmissionHandler) Applications(c *gin.Context) {
	var q dto.InboxQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	apps, pagination, err := h.service.ListApplications(c.Request.Context(), q.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, pagination)
}

// Messages godoc
// @Summary List contact messages
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/messages [get]
func (h *SubmissionHandler) Messages(c *gin.Context) {
	var q dto.InboxQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	messages, pagination, err := h.service.ListMessages(c.Request.Context(), q.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, pagination)
}

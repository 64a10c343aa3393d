package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	"github.com/noah-isme/tutor-directory-api/internal/service"
	"github.com/noah-isme/tutor-directory-api/pkg/response"
)

type exportService interface {
	Tutors(ctx context.Context, format string, state models.FilterState) (*service.ExportFile, error)
}

// ExportHandler streams filtered listings as downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Tutors godoc
// @Summary Export tutors
// @Description Accepts the listing filters plus format=csv|pdf
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/tutors/export [get]
func (h *ExportHandler) Tutors(c *gin.Context) {
	state := dto.ParseTutorQuery(c.Request.URL.Query())
	file, err := h.service.Tutors(c.Request.Context(), c.Query("format"), state)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Location", dto.TutorsLocation(state))
	response.Attachment(c, file.ContentType, file.Filename, file.Payload)
}

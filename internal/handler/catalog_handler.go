package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	"github.com/noah-isme/tutor-directory-api/pkg/response"
)

type catalogService interface {
	Subjects(ctx context.Context, filter models.SubjectFilter) (*dto.SubjectListing, error)
	Levels(ctx context.Context) ([]dto.LevelSummary, error)
	Locations(ctx context.Context) ([]dto.LocationSummary, error)
}

// CatalogHandler serves the reference pages.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Subjects godoc
// @Summary Subjects grouped by education level
// @Tags Catalog
// @Produce json
// @Param search query string false "Subject name contains"
// @Param level query string false "Education level, or all"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *CatalogHandler) Subjects(c *gin.Context) {
	var q dto.SubjectQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	listing, err := h.service.Subjects(c.Request.Context(), q.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listing, nil)
}

// Levels godoc
// @Summary Education levels with tutor counts
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /levels [get]
func (h *CatalogHandler) Levels(c *gin.Context) {
	levels, err := h.service.Levels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels, nil)
}

// Locations godoc
// @Summary Locations with tutor counts
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /locations [get]
func (h *CatalogHandler) Locations(c *gin.Context) {
	locations, err := h.service.Locations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, locations, nil)
}

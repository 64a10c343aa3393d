package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/middleware"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
	"github.com/noah-isme/tutor-directory-api/pkg/response"
)

type tutorService interface {
	List(ctx context.Context, values url.Values) (*dto.TutorListing, bool, error)
	Replay(ctx context.Context, req dto.FilterSessionRequest) (*dto.FilterSessionResponse, error)
	Get(ctx context.Context, id string) (*models.TutorProfile, error)
}

// TutorHandler serves the public tutor listing and profiles.
type TutorHandler struct {
	service tutorService
}

// NewTutorHandler constructs the handler.
func NewTutorHandler(service tutorService) *TutorHandler {
	return &TutorHandler{service: service}
}

// List godoc
// @Summary List tutors
// @Description Filters and sorts the directory. The canonical listing URL is returned in Content-Location.
// @Tags Tutors
// @Produce json
// @Param search query string false "Case-insensitive match on name, subject or location"
// @Param level query string false "Education level"
// @Param subject query string false "Subject"
// @Param location query string false "Location"
// @Param rating query number false "Minimum rating (0-5)"
// @Param online query bool false "Online tutors only"
// @Param sort query string false "rating, reviews, newest or name"
// @Success 200 {object} response.Envelope
// @Router /tutors [get]
func (h *TutorHandler) List(c *gin.Context) {
	listing, cacheHit, err := h.service.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)

	meta := responseMeta(c)
	meta["total_results"] = len(listing.Tutors)
	meta["active_filters"] = listing.ActiveFilters
	response.Located(c, listing.Location, listing, meta)
}

// Replay godoc
// @Summary Replay filter interactions
// @Description Imports query once, applies the ops in order and returns the final filters, location and results.
// @Tags Tutors
// @Accept json
// @Produce json
// @Param payload body dto.FilterSessionRequest true "Filter session"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tutors/filters [post]
func (h *TutorHandler) Replay(c *gin.Context) {
	var req dto.FilterSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid filter session payload"))
		return
	}

	res, err := h.service.Replay(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := responseMeta(c)
	meta["total_results"] = res.TotalResults
	meta["active_filters"] = res.ActiveFilters
	meta["propagations"] = res.Propagations
	response.Located(c, res.Location, res, meta)
}

// Get godoc
// @Summary Tutor profile
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutors/{id} [get]
func (h *TutorHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id is required"))
		return
	}
	profile, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

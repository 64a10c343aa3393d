package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-directory-api/internal/middleware"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
	"github.com/noah-isme/tutor-directory-api/pkg/response"
)

type loginService interface {
	Login(ctx context.Context, credentials models.Credentials) (*models.Session, error)
}

// AuthHandler wires the admin login endpoints.
type AuthHandler struct {
	service loginService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc loginService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Admin login
// @Description Exchange the dashboard credentials for a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.Credentials true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid login payload"))
		return
	}

	session, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, session, nil)
}

// Me godoc
// @Summary Current admin
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.AdminClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload := gin.H{"username": claims.Username, "role": claims.Role}
	if claims.ExpiresAt != nil {
		payload["expires_at"] = claims.ExpiresAt.Time
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

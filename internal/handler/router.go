package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-directory-api/internal/middleware"
	"github.com/noah-isme/tutor-directory-api/internal/models"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Tutors      *TutorHandler
	Catalog     *CatalogHandler
	Submissions *SubmissionHandler
	Auth        *AuthHandler
	Dashboard   *DashboardHandler
	Export      *ExportHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts the public and admin API under prefix. Admin routes
// require a bearer token accepted by tokens.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, tokens middleware.TokenValidator) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	api.GET("/tutors", h.Tutors.List)
	api.POST("/tutors/filters", h.Tutors.Replay)
	api.GET("/tutors/:id", h.Tutors.Get)

	api.GET("/subjects", h.Catalog.Subjects)
	api.GET("/levels", h.Catalog.Levels)
	api.GET("/locations", h.Catalog.Locations)

	api.POST("/applications", h.Submissions.Apply)
	api.POST("/contact", h.Submissions.Contact)

	api.POST("/admin/login", h.Auth.Login)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(tokens), middleware.RequireRole(models.RoleAdmin))
	admin.GET("/me", h.Auth.Me)
	admin.GET("/dashboard", h.Dashboard.Summary)
	admin.GET("/applications", h.Submissions.Applications)
	admin.GET("/messages", h.Submissions.Messages)
	admin.GET("/tutors/export", h.Export.Tutors)
}

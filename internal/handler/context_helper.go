package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-directory-api/internal/middleware"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

// responseMeta returns the request metadata map, creating one when the
// WithResponseMeta middleware is not installed.
func responseMeta(c *gin.Context) map[string]interface{} {
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return meta
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}

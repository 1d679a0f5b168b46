package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/internal/application"
	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/pkg/helpers"
	"github.com/oksasatya/blog-api/pkg/response"
	"github.com/oksasatya/blog-api/pkg/validation"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, application.ErrImageStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status of its kind. Unclassified errors are logged
// and reported without their text.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(response.RequestIDKey),
		})
		response.Error(c, status, "internal server error", nil)
		return
	}
	response.Error(c, status, err.Error(), nil)
}

func badPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

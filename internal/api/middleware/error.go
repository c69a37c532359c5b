package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hems-sim/internal/api/models"
)

// ErrorHandler turns a handler panic into a 500 with the standard error body.
// Only string panics are echoed; anything else gets a generic message.
func ErrorHandler(log logrus.FieldLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"component": "recovery",
			"path":      c.Request.URL.Path,
			"panic":     recovered,
		}).Error("handler panicked")

		msg := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			msg = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: msg},
		})
	})
}

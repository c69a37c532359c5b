package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hems-sim/internal/api/models"
	"hems-sim/internal/model"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondSimError maps domain errors to 400 responses with a stable code.
func respondSimError(c *gin.Context, err error) {
	code := "SIMULATION_ERROR"
	switch {
	case errors.Is(err, model.ErrInvalidParameter):
		code = "INVALID_PARAMETER"
	case errors.Is(err, model.ErrMalformedSeries):
		code = "MALFORMED_SERIES"
	}
	respondError(c, http.StatusBadRequest, code, err.Error())
}

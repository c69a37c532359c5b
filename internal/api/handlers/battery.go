package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hems-sim/internal/api/models"
	"hems-sim/internal/config"
)

// BatteryHandler handles battery-related requests
type BatteryHandler struct {
	presetsDir string
	log        logrus.FieldLogger
}

// NewBatteryHandler creates a new battery handler
func NewBatteryHandler(presetsDir string, log logrus.FieldLogger) *BatteryHandler {
	return &BatteryHandler{
		presetsDir: presetsDir,
		log:        log.WithField("component", "batteries"),
	}
}

// ListBatteries handles GET /api/v1/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	batteries := []models.BatteryInfo{}

	presets, skipped, err := config.ListPresets(h.presetsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			h.log.WithError(err).WithField("dir", h.presetsDir).Warn("failed to read presets directory")
		}
		c.JSON(http.StatusOK, gin.H{"batteries": batteries})
		return
	}
	for file, err := range skipped {
		h.log.WithError(err).WithField("file", file).Warn("skipping invalid battery preset")
	}

	for _, p := range presets {
		batteries = append(batteries, models.BatteryInfo{
			ID:    p.ID,
			Name:  p.Battery.Name,
			File:  p.File,
			Specs: p.Battery.ToModelParams(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}

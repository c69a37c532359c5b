package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hems-sim/internal/api/models"
	"hems-sim/internal/synth"
)

// Snapshotter is the read side of the live feed.
type Snapshotter interface {
	Snapshot() []synth.Point
	Capacity() int
}

// LiveHandler serves the polling view of the live demand feed.
type LiveHandler struct {
	feed Snapshotter
}

func NewLiveHandler(feed Snapshotter) *LiveHandler {
	return &LiveHandler{feed: feed}
}

// GetLive handles GET /api/v1/live
func (h *LiveHandler) GetLive(c *gin.Context) {
	points := h.feed.Snapshot()
	capacity := h.feed.Capacity()
	c.JSON(http.StatusOK, models.LiveResponse{
		Title:    fmt.Sprintf("Live Demand (last %d points)", capacity),
		Capacity: capacity,
		Samples:  points,
		Stats:    synth.Describe(synth.Values(points)),
	})
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hems-sim/internal/api/models"
	"hems-sim/internal/synth"
)

const dateLayout = "2006-01-02"

// DatasetHandler serves the synthetic demo datasets. Everything is generated
// once from the seed, so repeated requests see identical data.
type DatasetHandler struct {
	demand      []synth.Point
	weeks       map[string][]synth.Point
	temperature []synth.TempPoint
	window      []synth.Point
	demandPrice []synth.PricePoint
	mix         []synth.MixPoint
}

// NewDatasetHandler creates a dataset handler for seed
func NewDatasetHandler(seed uint64) *DatasetHandler {
	return &DatasetHandler{
		demand:      synth.HourlyDemand(seed),
		weeks:       synth.WeekComparison(seed),
		temperature: synth.TemperatureScatter(seed),
		window:      synth.DemandWindow(seed),
		demandPrice: synth.DemandPrice(seed),
		mix:         synth.GenerationMix(seed),
	}
}

// ListDatasets handles GET /api/v1/datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	datasets := []models.DatasetInfo{
		{ID: "demand", Name: "Hourly Electricity Demand", Unit: "MW", Resolution: "1h", Points: len(h.demand)},
		{ID: "weeks", Name: "Week Comparison", Unit: "MW", Resolution: "1h", Points: len(h.weeks[synth.Week1])},
		{ID: "temperature", Name: "Demand vs Temperature", Unit: "MW", Resolution: "sample", Points: len(h.temperature)},
		{ID: "window", Name: "Time Window Viewer", Unit: "MW", Resolution: "1h", Points: len(h.window)},
		{ID: "demand-price", Name: "Demand vs Price", Unit: "MW, €/MWh", Resolution: "1d", Points: len(h.demandPrice)},
		{ID: "mix", Name: "Generation Mix", Unit: "MWh", Resolution: "1d", Points: len(h.mix)},
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}

// GetDemand handles GET /api/v1/datasets/demand
func (h *DatasetHandler) GetDemand(c *gin.Context) {
	c.JSON(http.StatusOK, series("demand", "Hourly Electricity Demand", h.demand))
}

// ListWeeks handles GET /api/v1/datasets/weeks
func (h *DatasetHandler) ListWeeks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"weeks": synth.WeekKeys(h.weeks)})
}

// GetWeek handles GET /api/v1/datasets/weeks/:week. The week is either its
// label ("Week 1") or its number ("1").
func (h *DatasetHandler) GetWeek(c *gin.Context) {
	key := c.Param("week")
	if _, ok := h.weeks[key]; !ok {
		key = "Week " + strings.TrimPrefix(strings.ToLower(key), "week")
	}
	points, ok := h.weeks[key]
	if !ok {
		respondError(c, http.StatusNotFound, "UNKNOWN_DATASET", fmt.Sprintf("unknown week %q", c.Param("week")))
		return
	}
	c.JSON(http.StatusOK, series("weeks", "Hourly Demand - "+key, points))
}

// GetTemperature handles GET /api/v1/datasets/temperature?tmin=&daytype=
func (h *DatasetHandler) GetTemperature(c *gin.Context) {
	var q models.TemperatureQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	tmin := -10.0
	if q.TMin != nil {
		tmin = *q.TMin
	}
	dayType := q.DayType
	switch dayType {
	case "":
		dayType = synth.DayTypeAll
	case synth.DayTypeAll, synth.DayTypeWeekday, synth.DayTypeWeekend:
	default:
		respondError(c, http.StatusBadRequest, "INVALID_PARAMETER",
			fmt.Sprintf("daytype must be one of %s, %s, %s", synth.DayTypeAll, synth.DayTypeWeekday, synth.DayTypeWeekend))
		return
	}

	c.JSON(http.StatusOK, models.ScatterResponse{
		Title:   fmt.Sprintf("Demand vs Temperature (temp ≥ %g°C; %s)", tmin, dayType),
		TMin:    tmin,
		DayType: dayType,
		Points:  synth.FilterTemperature(h.temperature, tmin, dayType),
	})
}

// GetWindow handles GET /api/v1/datasets/window?start=&end=
// Both dates default to the first and last day of the series.
func (h *DatasetHandler) GetWindow(c *gin.Context) {
	var q models.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	first := h.window[0].Time.Truncate(24 * time.Hour)
	last := h.window[len(h.window)-1].Time.Truncate(24 * time.Hour)

	start, err := parseDate(q.Start, first)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PARAMETER", "start: "+err.Error())
		return
	}
	end, err := parseDate(q.End, last)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PARAMETER", "end: "+err.Error())
		return
	}
	if end.Before(start) {
		respondError(c, http.StatusBadRequest, "INVALID_PARAMETER", "end must not be before start")
		return
	}

	title := fmt.Sprintf("Demand: %s → %s", start.Format(dateLayout), end.Format(dateLayout))
	c.JSON(http.StatusOK, series("window", title, synth.FilterWindow(h.window, start, end)))
}

// GetDemandPrice handles GET /api/v1/datasets/demand-price
func (h *DatasetHandler) GetDemandPrice(c *gin.Context) {
	c.JSON(http.StatusOK, models.DemandPriceResponse{
		Title:  "Demand vs Price",
		Points: h.demandPrice,
	})
}

// GetMix handles GET /api/v1/datasets/mix
func (h *DatasetHandler) GetMix(c *gin.Context) {
	c.JSON(http.StatusOK, h.mixResponse())
}

// GetPage handles GET /api/v1/pages/:page. Only "mix" has its own page;
// every other path renders the demand page.
func (h *DatasetHandler) GetPage(c *gin.Context) {
	page := strings.Trim(c.Param("page"), "/")
	if page == "mix" {
		c.JSON(http.StatusOK, models.PageResponse{Page: "mix", Heading: "Mix Page", Chart: h.mixResponse()})
		return
	}
	c.JSON(http.StatusOK, models.PageResponse{
		Page:    "demand",
		Heading: "Demand Page",
		Chart:   series("demand", "Demand (Week)", h.demand),
	})
}

func (h *DatasetHandler) mixResponse() models.MixResponse {
	return models.MixResponse{
		Title:   "Generation Mix (10 days)",
		Sources: []string{synth.SourceSolar, synth.SourceWind, synth.SourceHydro},
		Points:  h.mix,
	}
}

func series(id, title string, points []synth.Point) models.SeriesResponse {
	return models.SeriesResponse{
		ID:     id,
		Title:  title,
		Unit:   "MW",
		Points: points,
		Stats:  synth.Describe(synth.Values(points)),
	}
}

func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	// Date pickers may send a full timestamp; only the day matters.
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	return time.Parse(dateLayout, s)
}

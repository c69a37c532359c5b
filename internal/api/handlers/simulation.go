package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hems-sim/internal/api/models"
	"hems-sim/internal/config"
	"hems-sim/internal/kpi"
	"hems-sim/internal/metrics"
	"hems-sim/internal/model"
	"hems-sim/internal/mqtt"
	"hems-sim/internal/runcache"
	"hems-sim/internal/simulator"
	"hems-sim/internal/synth"
)

var errUnknownPreset = errors.New("unknown battery preset")

// SimulationDeps are the collaborators of SimulationHandler. Metrics and
// Publisher may be nil.
type SimulationDeps struct {
	Defaults   config.BatteryConfig
	PresetsDir string
	Day        []synth.HEMSHour
	Cache      *runcache.Cache
	Metrics    *metrics.Metrics
	Publisher  mqtt.Publisher
	Log        logrus.FieldLogger
}

// SimulationHandler handles battery simulation requests
type SimulationHandler struct {
	defaults   config.BatteryConfig
	presetsDir string
	day        []synth.HEMSHour
	series     []model.Sample
	cache      *runcache.Cache
	metrics    *metrics.Metrics
	pub        mqtt.Publisher
	log        logrus.FieldLogger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(d SimulationDeps) *SimulationHandler {
	return &SimulationHandler{
		defaults:   d.Defaults,
		presetsDir: d.PresetsDir,
		day:        d.Day,
		series:     synth.HEMSSamples(d.Day),
		cache:      d.Cache,
		metrics:    d.Metrics,
		pub:        d.Publisher,
		log:        d.Log.WithField("component", "simulate"),
	}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	battery, err := h.resolveBattery(req.BatteryFile, req.Battery)
	if err != nil {
		respondError(c, http.StatusBadRequest, "UNKNOWN_PRESET", err.Error())
		return
	}
	samples, step, err := h.resolveSeries(req)
	if err != nil {
		respondSimError(c, err)
		return
	}

	res, k, err := h.run(samples, battery.ToModelParams(), step)
	if err != nil {
		h.log.WithError(err).Info("simulation rejected")
		respondSimError(c, err)
		return
	}

	entry := h.cache.Put(res, k)
	if req.Options.Publish && h.pub != nil {
		if err := h.pub.PublishKPI(entry.ID, k); err != nil {
			h.log.WithError(err).Warn("kpi publish failed")
		}
	}
	h.log.WithFields(logrus.Fields{
		"id":        entry.ID,
		"intervals": len(res.Ledger),
		"capacity":  res.Params.CapacityKWh,
	}).Debug("simulation completed")

	resp := models.SimulationResponse{
		ID:          entry.ID,
		Status:      "completed",
		Battery:     res.Params,
		StepMinutes: step.Minutes(),
		Intervals:   len(res.Ledger),
		Window:      window(res.Ledger, step),
		KPI:         k,
	}
	if req.Options.IncludeLedger {
		resp.Ledger = res.Ledger
	}
	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/simulations/:id/ledger
func (h *SimulationHandler) GetLedger(c *gin.Context) {
	entry, ok := h.cache.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "simulation not found or expired")
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, entry.ID))
		c.Status(http.StatusOK)
		if err := simulator.WriteLedgerCSV(c.Writer, entry.Result.Ledger); err != nil {
			h.log.WithError(err).Warn("write ledger csv")
		}
		return
	}

	c.JSON(http.StatusOK, models.LedgerResponse{
		ID:        entry.ID,
		CreatedAt: entry.CreatedAt,
		ExpiresAt: entry.ExpiresAt,
		Ledger:    entry.Result.Ledger,
	})
}

// CompareSimulations handles POST /api/v1/simulations/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	base, err := h.resolveBattery(req.Base.BatteryFile, req.Base.Battery)
	if err != nil {
		respondError(c, http.StatusBadRequest, "UNKNOWN_PRESET", err.Error())
		return
	}
	samples, step, err := h.resolveSeries(req.Base)
	if err == nil {
		err = model.ValidateSeries(samples, step)
	}
	if err != nil {
		respondSimError(c, err)
		return
	}

	named := make([]kpi.Named, 0, len(req.Variations))
	var skipped []models.SkippedVariation

	for _, v := range req.Variations {
		p := applyBattery(base, v.Battery).ToModelParams()

		res, k, err := h.runOrBaseline(samples, p, step)
		if err != nil {
			skipped = append(skipped, models.SkippedVariation{Name: v.Name, Reason: err.Error()})
			continue
		}
		named = append(named, kpi.Named{Name: v.Name, Battery: res.Params, KPI: k})
	}

	ranked := kpi.RankByGridImport(named)
	out := make([]models.ComparisonResult, len(ranked))
	for i, r := range ranked {
		out[i] = models.ComparisonResult{
			Rank:    i + 1,
			Name:    r.Name,
			Battery: r.Battery,
			KPI:     r.KPI,
		}
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		Comparison: out,
		Skipped:    skipped,
	})
}

// run simulates and reduces, recording the outcome in metrics.
func (h *SimulationHandler) run(samples []model.Sample, p model.BatteryParams, step time.Duration) (*simulator.Result, kpi.KPI, error) {
	start := time.Now()
	res, err := simulator.Simulate(samples, p, step)
	if err != nil {
		h.metrics.ObserveSimulation(false, time.Since(start))
		return nil, kpi.KPI{}, err
	}
	k := kpi.Summarize(res)
	h.metrics.ObserveSimulation(true, time.Since(start))
	return res, k, nil
}

// runOrBaseline treats a zero capacity as "no battery". The remaining
// parameters are still validated.
func (h *SimulationHandler) runOrBaseline(samples []model.Sample, p model.BatteryParams, step time.Duration) (*simulator.Result, kpi.KPI, error) {
	if p.CapacityKWh != 0 {
		return h.run(samples, p, step)
	}
	check := p
	check.CapacityKWh = 1
	if err := check.Validate(); err != nil {
		h.metrics.ObserveSimulation(false, 0)
		return nil, kpi.KPI{}, err
	}
	res, err := simulator.Baseline(samples, p, step)
	if err != nil {
		h.metrics.ObserveSimulation(false, 0)
		return nil, kpi.KPI{}, err
	}
	h.metrics.ObserveSimulation(true, 0)
	return res, kpi.Summarize(res), nil
}

// resolveBattery starts from the preset (if named) or the server default and
// applies the request's explicit fields on top. The result is not validated.
func (h *SimulationHandler) resolveBattery(presetID string, in models.BatteryInput) (config.BatteryConfig, error) {
	base := h.defaults
	if presetID != "" {
		path, err := config.ResolvePreset(h.presetsDir, presetID)
		if err != nil {
			if os.IsNotExist(err) {
				return config.BatteryConfig{}, fmt.Errorf("%w: %q", errUnknownPreset, presetID)
			}
			return config.BatteryConfig{}, err
		}
		loaded, err := config.LoadBatteryFile(path)
		if err != nil {
			h.log.WithError(err).WithField("file", path).Warn("failed to load battery preset")
			return config.BatteryConfig{}, fmt.Errorf("%w: %q: %v", errUnknownPreset, presetID, err)
		}
		base = loaded
	}
	return applyBattery(base, in), nil
}

func applyBattery(base config.BatteryConfig, in models.BatteryInput) config.BatteryConfig {
	out := base
	if in.Name != "" {
		out.Name = in.Name
	}
	if in.CapacityKWh != nil {
		out.CapacityKWh = *in.CapacityKWh
	}
	if in.Efficiency != nil {
		out.Efficiency = *in.Efficiency
	}
	if in.InitialSOCRatio != nil {
		out.InitialSOCRatio = *in.InitialSOCRatio
	}
	return out
}

// resolveSeries falls back to the synthetic home energy day at hourly steps.
// A zero step_minutes is inferred from the samples.
func (h *SimulationHandler) resolveSeries(req models.SimulationRequest) ([]model.Sample, time.Duration, error) {
	if req.StepMinutes < 0 {
		return nil, 0, fmt.Errorf("%w: step_minutes must not be negative, got %d", model.ErrInvalidParameter, req.StepMinutes)
	}
	if len(req.Samples) == 0 {
		return h.series, time.Hour, nil
	}
	if req.StepMinutes > 0 {
		return req.Samples, time.Duration(req.StepMinutes) * time.Minute, nil
	}
	return req.Samples, simulator.InferStep(req.Samples, time.Hour), nil
}

func window(ledger []simulator.LedgerRow, step time.Duration) models.TimeWindow {
	if len(ledger) == 0 {
		return models.TimeWindow{}
	}
	return models.TimeWindow{
		Start: ledger[0].Time,
		End:   ledger[len(ledger)-1].Time.Add(step),
	}
}

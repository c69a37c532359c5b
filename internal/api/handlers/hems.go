package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hems-sim/internal/api/models"
	"hems-sim/internal/kpi"
	"hems-sim/internal/simulator"
	"hems-sim/internal/synth"
)

// HEMS handles GET /api/v1/hems?cap=&eta=&soc0=
//
// It replays the home energy day with the given battery and returns every
// chart trace and KPI tile. Missing parameters fall back to the configured
// default battery; cap=0 runs without a battery.
func (h *SimulationHandler) HEMS(c *gin.Context) {
	var q models.HEMSQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	p := h.defaults.ToModelParams()
	if q.CapacityKWh != nil {
		p.CapacityKWh = *q.CapacityKWh
	}
	if q.Efficiency != nil {
		p.Efficiency = *q.Efficiency
	}
	soc0Pct := p.InitialSOCRatio * 100
	if q.SOC0Pct != nil {
		soc0Pct = *q.SOC0Pct
		p.InitialSOCRatio = soc0Pct / 100
	}

	res, k, err := h.runOrBaseline(h.series, p, time.Hour)
	if err != nil {
		respondSimError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.HEMSResponse{
		Title: fmt.Sprintf("HEMS Simulation - Battery %g kWh, η=%.2f, SoC0=%g%%",
			p.CapacityKWh, p.Efficiency, soc0Pct),
		Battery: p,
		Traces:  hemsTraces(h.day, res),
		KPI:     k,
		Tiles:   hemsTiles(k),
	})
}

func hemsTraces(day []synth.HEMSHour, res *simulator.Result) []models.Trace {
	n := len(res.Ledger)
	x := make([]time.Time, n)
	demand := make([]float64, n)
	forecast := make([]float64, n)
	pv := make([]float64, n)
	grid := make([]float64, n)
	charge := make([]float64, n)
	discharge := make([]float64, n)
	soc := make([]float64, n)
	for i, row := range res.Ledger {
		x[i] = row.Time
		demand[i] = row.LoadKW
		pv[i] = row.GenerationKW
		grid[i] = row.GridKW
		charge[i] = row.ChargeKW
		discharge[i] = row.DischargeKW
		soc[i] = row.SOCEndKWh
		if i < len(day) {
			forecast[i] = day[i].ForecastKW
		}
	}

	return []models.Trace{
		{Name: "Demand [kW]", Color: "#1f77b4", Axis: "y", X: x, Y: demand},
		{Name: "Forecast [kW]", Color: "#ff7f0e", Dash: "dot", Axis: "y", X: x, Y: forecast},
		{Name: "PV [kW]", Color: "#2ca02c", Axis: "y", X: x, Y: pv},
		{Name: "Grid after battery [kW]", Color: "#d62728", Axis: "y", X: x, Y: grid},
		{Name: "Battery charge [kW]", Color: "#9467bd", Axis: "y", Visible: "legendonly", X: x, Y: charge},
		{Name: "Battery discharge [kW]", Color: "#8c564b", Axis: "y", Visible: "legendonly", X: x, Y: discharge},
		{Name: "SoC [kWh]", Color: "#17becf", Axis: "y2", X: x, Y: soc},
	}
}

func hemsTiles(k kpi.KPI) []models.Tile {
	return []models.Tile{
		{Label: "Load (kWh)", Value: fmt.Sprintf("%.1f", k.LoadKWh)},
		{Label: "PV (kWh)", Value: fmt.Sprintf("%.1f", k.GenerationKWh)},
		{Label: "Grid import (kWh)", Value: fmt.Sprintf("%.1f", k.GridImportKWh)},
		{Label: "Grid export (kWh)", Value: fmt.Sprintf("%.1f", k.GridExportKWh)},
		{Label: "Self-consumption (%)", Value: fmt.Sprintf("%.1f%%", k.SelfConsumptionPct)},
		{Label: "Peak grid (kW)", Value: fmt.Sprintf("%.2f", k.PeakGridKW)},
	}
}

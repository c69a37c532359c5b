package kpi

import (
	"sort"

	"hems-sim/internal/model"
)

// Named pairs a KPI with the label and battery of the scenario that
// produced it. Names need not be unique.
type Named struct {
	Name    string              `json:"name"`
	Battery model.BatteryParams `json:"battery"`
	KPI     KPI                 `json:"kpi"`
}

// RankByGridImport sorts scenarios ascending by grid import; ties go to the
// higher self-consumption ratio, then by name.
func RankByGridImport(in []Named) []Named {
	out := append([]Named(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].KPI, out[j].KPI
		if a.GridImportKWh != b.GridImportKWh {
			return a.GridImportKWh < b.GridImportKWh
		}
		if a.SelfConsumptionRatio != b.SelfConsumptionRatio {
			return a.SelfConsumptionRatio > b.SelfConsumptionRatio
		}
		return out[i].Name < out[j].Name
	})
	return out
}

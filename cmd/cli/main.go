package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"hems-sim/internal/config"
	"hems-sim/internal/data"
	"hems-sim/internal/kpi"
	"hems-sim/internal/model"
	"hems-sim/internal/simulator"
	"hems-sim/internal/synth"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "simulate":
		err = cmdSimulate(os.Args[2:])
	case "sweep":
		err = cmdSweep(os.Args[2:])
	case "presets":
		err = cmdPresets(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --data series.csv --out results/ledger.csv")
	fmt.Println("  cli sweep --from 0 --to 20 --step 5 [--data series.csv]")
	fmt.Println("  cli presets --dir examples/batteries")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --data the synthetic home energy day (24 hourly samples) is used")
	fmt.Println("  - series CSV columns: time,load_kw,generation_kw (RFC3339 times)")
	fmt.Println("  - the ledger CSV has action=CHARGING/IDLE/DISCHARGING per interval")
}

func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML or TOML config (default: built-in battery)")
	dataPath := fs.String("data", "", "Series CSV or JSON (default: synthetic home energy day)")
	outPath := fs.String("out", "", "Optional ledger CSV output path")
	seed := fs.Uint64("seed", 0, "Seed for the synthetic day (default: config dataset_seed)")
	_ = fs.Parse(args)

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.DatasetSeed = *seed
	}

	samples, step, err := loadSamples(*dataPath, cfg.DatasetSeed)
	if err != nil {
		return err
	}

	res, err := simulator.Simulate(samples, cfg.Battery.ToModelParams(), step)
	if err != nil {
		return err
	}

	if *outPath != "" {
		if err := writeLedger(*outPath, res.Ledger); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(res.Ledger), *outPath)
	}

	k := kpi.Summarize(res)
	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"KPI", "Value"})
	for _, row := range [][]string{
		{"Battery", fmt.Sprintf("%s (%g kWh, η=%.2f, SoC0=%g%%)", cfg.Battery.Name, res.Params.CapacityKWh, res.Params.Efficiency, res.Params.InitialSOCRatio*100)},
		{"Intervals", strconv.Itoa(len(res.Ledger))},
		{"Load (kWh)", f1(k.LoadKWh)},
		{"PV (kWh)", f1(k.GenerationKWh)},
		{"Grid import (kWh)", f1(k.GridImportKWh)},
		{"Grid export (kWh)", f1(k.GridExportKWh)},
		{"Self-consumption (%)", f1(k.SelfConsumptionPct) + "%"},
		{"Peak grid (kW)", fmt.Sprintf("%.2f", k.PeakGridKW)},
		{"Final SoC (kWh)", fmt.Sprintf("%.2f", k.FinalSOCKWh)},
		{"Equivalent cycles", fmt.Sprintf("%.2f", k.EquivalentCycles)},
	} {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func cmdSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	from := fs.Float64("from", 0, "Smallest capacity in kWh (0 = no battery)")
	to := fs.Float64("to", 20, "Largest capacity in kWh")
	stepKWh := fs.Float64("step", 5, "Capacity increment in kWh")
	eta := fs.Float64("eta", 0.95, "Efficiency")
	soc0 := fs.Float64("soc0", 50, "Initial SoC in percent")
	dataPath := fs.String("data", "", "Series CSV or JSON (default: synthetic home energy day)")
	seed := fs.Uint64("seed", config.Default().DatasetSeed, "Seed for the synthetic day")
	_ = fs.Parse(args)

	if *stepKWh <= 0 || *to < *from || *from < 0 {
		return fmt.Errorf("need 0 <= from <= to and step > 0")
	}

	samples, step, err := loadSamples(*dataPath, *seed)
	if err != nil {
		return err
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Capacity (kWh)", "Grid import (kWh)", "Grid export (kWh)", "Self-consumption (%)", "Peak grid (kW)", "Cycles"})
	for _, capKWh := range sweepCapacities(*from, *to, *stepKWh) {
		p := model.BatteryParams{CapacityKWh: capKWh, Efficiency: *eta, InitialSOCRatio: *soc0 / 100}

		var res *simulator.Result
		if capKWh == 0 {
			res, err = simulator.Baseline(samples, p, step)
		} else {
			res, err = simulator.Simulate(samples, p, step)
		}
		if err != nil {
			return err
		}

		k := kpi.Summarize(res)
		if err := table.Append([]string{
			fmt.Sprintf("%g", capKWh),
			f1(k.GridImportKWh),
			f1(k.GridExportKWh),
			f1(k.SelfConsumptionPct),
			fmt.Sprintf("%.2f", k.PeakGridKW),
			fmt.Sprintf("%.2f", k.EquivalentCycles),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func cmdPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	dir := fs.String("dir", config.Default().PresetsDir, "Battery presets directory")
	_ = fs.Parse(args)

	presets, skipped, err := config.ListPresets(*dir)
	if err != nil {
		return err
	}
	for file, err := range skipped {
		fmt.Fprintf(os.Stderr, "skipping %s: %v\n", file, err)
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"ID", "Name", "Capacity (kWh)", "Efficiency", "Initial SoC (%)"})
	for _, p := range presets {
		if err := table.Append([]string{
			p.ID,
			p.Battery.Name,
			fmt.Sprintf("%g", p.Battery.CapacityKWh),
			fmt.Sprintf("%.2f", p.Battery.Efficiency),
			fmt.Sprintf("%g", p.Battery.InitialSOCRatio*100),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// sweepCapacities lists from, from+step, ... up to to. Each value is computed
// from its index and rounded so fractional steps print cleanly.
func sweepCapacities(from, to, step float64) []float64 {
	n := int(math.Floor((to-from)/step + 1e-9))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, math.Round((from+float64(i)*step)*1e9)/1e9)
	}
	return out
}

func loadSamples(path string, seed uint64) ([]model.Sample, time.Duration, error) {
	if path == "" {
		return synth.HEMSSamples(synth.HEMSDay(seed)), time.Hour, nil
	}
	samples, stepMinutes, err := data.LoadSeries(path)
	if err != nil {
		return nil, 0, err
	}
	if stepMinutes > 0 {
		return samples, time.Duration(stepMinutes) * time.Minute, nil
	}
	return samples, simulator.InferStep(samples, time.Hour), nil
}

func writeLedger(path string, ledger []simulator.LedgerRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := simulator.WriteLedgerCSV(f, ledger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func f1(x float64) string { return fmt.Sprintf("%.1f", x) }

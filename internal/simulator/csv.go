package simulator

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"hems-sim/internal/model"
)

var ledgerHeader = []string{
	"index",
	"time",
	"load_kw",
	"generation_kw",
	"net_kw",
	"action",
	"grid_kw",
	"charge_kw",
	"discharge_kw",
	"soc_start_kwh",
	"soc_end_kwh",
}

func WriteLedgerCSV(w io.Writer, ledger []LedgerRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ledgerHeader); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Time),
			fmtFloat(r.LoadKW),
			fmtFloat(r.GenerationKW),
			fmtFloat(r.NetKW),
			string(r.Action),
			fmtFloat(r.GridKW),
			fmtFloat(r.ChargeKW),
			fmtFloat(r.DischargeKW),
			fmtFloat(r.SOCStartKWh),
			fmtFloat(r.SOCEndKWh),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadSeriesCSV parses a "time,load_kw,generation_kw" file with RFC3339 times.
// Columns are located by header name, so extra columns are ignored.
func ReadSeriesCSV(r io.Reader) ([]model.Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"time", "load_kw", "generation_kw"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", model.ErrMalformedSeries, want)
		}
	}

	var out []model.Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts, err := time.Parse(time.RFC3339, rec[cols["time"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", model.ErrMalformedSeries, line, err)
		}
		load, err := strconv.ParseFloat(rec[cols["load_kw"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d load_kw: %v", model.ErrMalformedSeries, line, err)
		}
		gen, err := strconv.ParseFloat(rec[cols["generation_kw"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d generation_kw: %v", model.ErrMalformedSeries, line, err)
		}
		out = append(out, model.Sample{Time: ts, LoadKW: load, GenerationKW: gen})
	}
	return out, nil
}

// InferStep returns the spacing of the first two samples, or fallback for
// series shorter than two or out of order.
func InferStep(samples []model.Sample, fallback time.Duration) time.Duration {
	if len(samples) < 2 {
		return fallback
	}
	if d := samples[1].Time.Sub(samples[0].Time); d > 0 {
		return d
	}
	return fallback
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

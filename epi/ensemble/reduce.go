package ensemble

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/epiplan/epiplan/epi"
)

// QuantileSummary holds per-day per-node quantile bands across the
// accepted realizations of an ensemble.
type QuantileSummary struct {
	Quantiles []float64
	Days      int
	K         int
	// Infectious[q][day][node] and CumI[q][day][node] follow the order of
	// Quantiles.
	Infectious [][][]float64
	CumI       [][][]float64
	Accepted   int
	Rejected   int
}

// Reduce computes quantile bands over the accepted realizations. Rejected
// realizations (dynamics filter failures) are excluded. qs must be sorted
// probabilities in (0, 1); an empty ensemble is an error.
func Reduce(results []*Result, qs []float64) (*QuantileSummary, error) {
	var accepted []*Result
	rejected := 0
	for _, res := range results {
		if res.Rejected {
			rejected++
			continue
		}
		accepted = append(accepted, res)
	}
	if len(accepted) == 0 {
		return nil, fmt.Errorf("no accepted realizations to summarize")
	}
	for _, q := range qs {
		if q <= 0 || q >= 1 {
			return nil, fmt.Errorf("quantile %g outside (0, 1)", q)
		}
	}

	first := accepted[0].Traj
	days := first.Days()
	k := first.K

	summary := &QuantileSummary{
		Quantiles:  qs,
		Days:       days,
		K:          k,
		Infectious: allocBands(len(qs), days, k),
		CumI:       allocBands(len(qs), days, k),
		Accepted:   len(accepted),
		Rejected:   rejected,
	}

	// per-realization daily series, computed once
	infectious := make([][][]float64, len(accepted))
	cumI := make([][][]float64, len(accepted))
	for r, res := range accepted {
		daily := res.Traj.DailySeries(epi.CompI1)
		daily2 := res.Traj.DailySeries(epi.CompI2)
		daily3 := res.Traj.DailySeries(epi.CompI3)
		inf := make([][]float64, days)
		for d := 0; d < days; d++ {
			inf[d] = make([]float64, k)
			for i := 0; i < k; i++ {
				inf[d][i] = daily[d][i] + daily2[d][i] + daily3[d][i]
			}
		}
		infectious[r] = inf
		cumI[r] = res.Traj.DailySeries(epi.CompCumI)
	}

	values := make([]float64, len(accepted))
	for d := 0; d < days; d++ {
		for i := 0; i < k; i++ {
			for r := range accepted {
				values[r] = infectious[r][d][i]
			}
			sort.Float64s(values)
			for qi, q := range qs {
				summary.Infectious[qi][d][i] = stat.Quantile(q, stat.Empirical, values, nil)
			}

			for r := range accepted {
				values[r] = cumI[r][d][i]
			}
			sort.Float64s(values)
			for qi, q := range qs {
				summary.CumI[qi][d][i] = stat.Quantile(q, stat.Empirical, values, nil)
			}
		}
	}
	return summary, nil
}

func allocBands(nq, days, k int) [][][]float64 {
	out := make([][][]float64, nq)
	for q := range out {
		out[q] = make([][]float64, days)
		for d := range out[q] {
			out[q][d] = make([]float64, k)
		}
	}
	return out
}

// WriteCSV writes the quantile summary in long format: one row per
// (day, series, quantile), one column per node.
func (qs *QuantileSummary) WriteCSV(dir, scenarioName string, geo *epi.Geography) (string, error) {
	outDir := filepath.Join(dir, scenarioName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s_quantiles.csv", scenarioName))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append([]string{"day", "series", "quantile"}, geo.NodeNames...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	write := func(series string, bands [][][]float64) error {
		row := make([]string, 3+qs.K)
		for d := 0; d < qs.Days; d++ {
			for qi, q := range qs.Quantiles {
				row[0] = strconv.Itoa(d)
				row[1] = series
				row[2] = strconv.FormatFloat(q, 'f', -1, 64)
				for i := 0; i < qs.K; i++ {
					row[3+i] = strconv.FormatFloat(bands[qi][d][i], 'f', 2, 64)
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := write("infectious", qs.Infectious); err != nil {
		return "", err
	}
	if err := write("cumI", qs.CumI); err != nil {
		return "", err
	}
	w.Flush()
	return path, w.Error()
}

package epi

import (
	"fmt"
)

// DynFilter is an optional days x K matrix of minimum cumulative infection
// counts. Entries below zero are ignored. Realizations whose cumI falls
// under an active entry are rejected from ensemble summaries, which keeps
// trajectories consistent with what has already been observed on the
// ground.
type DynFilter struct {
	Days int
	K    int
	Min  [][]float64
}

// LoadDynFilter reads a whitespace-separated matrix and checks its shape.
func LoadDynFilter(path string, days, k int) (*DynFilter, error) {
	m, err := loadMatrix(path)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", path, err)
	}
	rows, cols := m.Dims()
	if rows != days || cols != k {
		return nil, fmt.Errorf("filter must have dimensions (%d, %d), actual: (%d, %d)", days, k, rows, cols)
	}
	mins := make([][]float64, rows)
	for d := 0; d < rows; d++ {
		mins[d] = make([]float64, cols)
		for i := 0; i < cols; i++ {
			mins[d][i] = m.At(d, i)
		}
	}
	return &DynFilter{Days: days, K: k, Min: mins}, nil
}

// Check reports whether the given per-node cumI satisfies the filter on the
// given day. Days beyond the filter's span always pass.
func (f *DynFilter) Check(day int, cumI []float64) bool {
	if day < 0 || day >= f.Days {
		return true
	}
	for i := 0; i < f.K && i < len(cumI); i++ {
		if f.Min[day][i] >= 0 && cumI[i] < f.Min[day][i] {
			return false
		}
	}
	return true
}

package epi

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteRealizationCSV writes one realization's trajectory in long format:
// one row per (time, compartment), one column per node. The file lands at
// <dir>/<scenario>/<scenario>_<n>.csv and the directory is created as
// needed.
func WriteRealizationCSV(dir, scenarioName string, n int, traj *Trajectory, geo *Geography) (string, error) {
	outDir := filepath.Join(dir, scenarioName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s_%d.csv", scenarioName, n))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append([]string{"time", "comp"}, geo.NodeNames...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	row := make([]string, 2+geo.NumNodes)
	for s := 0; s < traj.Len(); s++ {
		for c := 0; c < NumComp; c++ {
			row[0] = strconv.FormatFloat(traj.Time(s), 'f', -1, 64)
			row[1] = CompartmentNames[c]
			for i := 0; i < geo.NumNodes; i++ {
				row[2+i] = strconv.FormatFloat(traj.Comp[c][s][i], 'f', -1, 64)
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	return path, w.Error()
}

// WriteBedNeedsCSV writes a bed-occupancy estimate, one row per day.
func WriteBedNeedsCSV(dir, scenarioName string, n int, beds *BedNeeds, geo *Geography) (string, error) {
	outDir := filepath.Join(dir, scenarioName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s_beds_%d.csv", scenarioName, n))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append([]string{"day"}, geo.NodeNames...)
	if err := w.Write(header); err != nil {
		return "", err
	}
	row := make([]string, 1+geo.NumNodes)
	for d := 0; d < beds.Days; d++ {
		row[0] = strconv.Itoa(d)
		for i := 0; i < geo.NumNodes; i++ {
			row[1+i] = strconv.FormatFloat(beds.Occupied[d][i], 'f', 2, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

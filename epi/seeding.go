package epi

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/epiplan/epiplan/epi/scenario"
)

// SeedingSchedule holds per-day per-node importation counts. Day 0 is the
// scenario start date; the schedule covers days 0..Days-1. The end date
// itself falls outside the simulated window, so rows dated on it are
// skipped at load time rather than scheduled past the horizon.
type SeedingSchedule struct {
	Days    int
	K       int
	Amounts [][]float64 // Amounts[day][node]
}

// NewSeedingSchedule creates an all-zero schedule.
func NewSeedingSchedule(days, k int) *SeedingSchedule {
	amounts := make([][]float64, days)
	for d := range amounts {
		amounts[d] = make([]float64, k)
	}
	return &SeedingSchedule{Days: days, K: k, Amounts: amounts}
}

// Total returns the sum of all scheduled importations.
func (s *SeedingSchedule) Total() float64 {
	var total float64
	for _, day := range s.Amounts {
		for _, v := range day {
			total += v
		}
	}
	return total
}

// DrawSeeding builds a seeding schedule for one realization according to
// the configured method. uid distinguishes realizations for folder draws.
func DrawSeeding(cfg scenario.SeedingSpec, geo *Geography, start time.Time, days int, uid int, src rand.Source) (*SeedingSchedule, error) {
	switch cfg.Method {
	case scenario.SeedingPoisson:
		return DrawPoissonSeeding(cfg.LambdaFile, geo, start, days, src)
	case scenario.SeedingFolder:
		return LoadFolderSeeding(cfg.FolderPath, geo, start, days, uid)
	default:
		return nil, fmt.Errorf("unknown seeding method [got: %s]", cfg.Method)
	}
}

// DrawPoissonSeeding reads a lambda file (CSV: place,date,amount) and draws
// Poisson(amount) importations into each (date, place) cell. A repeated
// (place, date) pair is an error naming the offending rows; so is a place
// that does not appear in the geography.
func DrawPoissonSeeding(lambdaFile string, geo *Geography, start time.Time, days int, src rand.Source) (*SeedingSchedule, error) {
	rows, err := readSeedingRows(lambdaFile)
	if err != nil {
		return nil, err
	}

	var dupes []int
	seen := make(map[string]bool)
	for _, row := range rows {
		key := row.place + "|" + row.date.Format(scenario.DateLayout)
		if seen[key] {
			dupes = append(dupes, row.line)
		}
		seen[key] = true
	}
	if len(dupes) > 0 {
		return nil, fmt.Errorf("repeated place-date in rows %v of seeding lambda_file", dupes)
	}

	schedule := NewSeedingSchedule(days, geo.NumNodes)
	for _, row := range rows {
		node, ok := geo.NodeIndex(row.place)
		if !ok {
			return nil, fmt.Errorf("invalid place %q in row %d of seeding lambda_file: not found in geodata", row.place, row.line)
		}
		day := int(row.date.Sub(start).Hours() / 24)
		if day < 0 || day >= days {
			logrus.Warnf("seeding row %d (%s, %s) falls outside the simulated window; skipped",
				row.line, row.place, row.date.Format(scenario.DateLayout))
			continue
		}
		if row.amount > 0 {
			schedule.Amounts[day][node] += distuv.Poisson{Lambda: row.amount, Src: src}.Rand()
		}
	}
	return schedule, nil
}

// LoadFolderSeeding picks importation_<n>.csv deterministically from a
// folder of pre-drawn importation files (n = uid mod file count + 1) and
// uses its amounts verbatim.
func LoadFolderSeeding(folderPath string, geo *Geography, start time.Time, days int, uid int) (*SeedingSchedule, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("read seeding folder: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "importation_") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("seeding folder %s has no importation files", folderPath)
	}
	sort.Strings(files)

	nfile := uid%len(files) + 1
	path := filepath.Join(folderPath, fmt.Sprintf("importation_%d.csv", nfile))
	rows, err := readSeedingRows(path)
	if err != nil {
		return nil, err
	}

	schedule := NewSeedingSchedule(days, geo.NumNodes)
	for _, row := range rows {
		node, ok := geo.NodeIndex(row.place)
		if !ok {
			return nil, fmt.Errorf("invalid place %q in row %d of %s: not found in geodata", row.place, row.line, path)
		}
		day := int(row.date.Sub(start).Hours() / 24)
		if day < 0 || day >= days {
			logrus.Warnf("importation row %d (%s, %s) falls outside the simulated window; skipped",
				row.line, row.place, row.date.Format(scenario.DateLayout))
			continue
		}
		schedule.Amounts[day][node] += row.amount
	}
	return schedule, nil
}

type seedingRow struct {
	line   int // 1-based data row number
	place  string
	date   time.Time
	amount float64
}

// readSeedingRows parses a place,date,amount CSV with a header row.
// Places are kept as strings so geoids with leading zeros survive.
func readSeedingRows(path string) ([]seedingRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seeding file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse seeding file %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("seeding file %s has no data rows", path)
	}

	header := records[0]
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, want := range []string{"place", "date", "amount"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("seeding file %s missing column %q", path, want)
		}
	}

	var rows []seedingRow
	for i, record := range records[1:] {
		date, err := time.Parse(scenario.DateLayout, strings.TrimSpace(record[col["date"]]))
		if err != nil {
			return nil, fmt.Errorf("invalid date at row %d of %s: %w", i+1, path, err)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[col["amount"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount at row %d of %s: %w", i+1, path, err)
		}
		if amount < 0 {
			return nil, fmt.Errorf("negative amount at row %d of %s", i+1, path)
		}
		rows = append(rows, seedingRow{
			line:   i + 1,
			place:  strings.TrimSpace(record[col["place"]]),
			date:   date,
			amount: amount,
		})
	}
	return rows, nil
}

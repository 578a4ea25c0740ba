// Package testutil provides shared test fixtures for the epiplan engine
// and CLI: small canned geographies and helpers for writing temporary
// input files. It deliberately depends only on the standard library so
// that every package's tests can use it without import cycles.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TwoNodeGeodata is a two-county geodata CSV with string geoids.
const TwoNodeGeodata = "geoid,pop\n24001,90000\n24003,10000\n"

// TwoNodeMobility is the matching 2x2 mobility matrix.
const TwoNodeMobility = "0 500\n200 0\n"

// TwoNodeSeeding seeds node 24001 with 5 expected importations on day 0.
const TwoNodeSeeding = "place,date,amount\n24001,2020-03-01,5\n"

// WriteFile writes content under dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// ScenarioYAML builds a minimal valid scenario spec referencing the given
// geodata and seeding paths. Callers append NPI or filter sections as
// needed.
func ScenarioYAML(geodataPath, mobilityPath, seedingPath string) string {
	return `version: "1"
name: test-scenario
seed: 42
start_date: 2020-03-01
end_date: 2020-03-31
dt_per_day: 2
realizations: 3
geography:
  geodata: ` + geodataPath + `
  mobility: ` + mobilityPath + `
  population_key: pop
  node_name_key: geoid
disease:
  alpha: 0.9
  sigma: {type: fixed, params: {value: 0.25}}
  gamma: {type: fixed, params: {value: 0.3}}
  r0: {type: fixed, params: {value: 2.5}}
seeding:
  method: poisson
  lambda_file: ` + seedingPath + `
output:
  dir: model_output
  write_csv: false
`
}

// Package scenario defines the YAML scenario specification for planning
// runs: geography references, disease parameter distributions, importation
// seeding, and NPI schedules. It has no dependency on the engine in epi/.
package scenario

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DateLayout is the date format used throughout scenario specs.
const DateLayout = "2006-01-02"

// Seeding method names accepted in SeedingSpec.Method.
const (
	SeedingPoisson = "poisson"
	SeedingFolder  = "folder"
)

// ScenarioSpec is the top-level scenario configuration.
// Loaded from YAML via LoadScenarioSpec(path).
type ScenarioSpec struct {
	Version      string        `yaml:"version"`
	Name         string        `yaml:"name"`
	Seed         int64         `yaml:"seed"`
	StartDate    string        `yaml:"start_date"`
	EndDate      string        `yaml:"end_date"`
	DtPerDay     int           `yaml:"dt_per_day"`
	Realizations int           `yaml:"realizations"`
	Geography    GeographySpec `yaml:"geography"`
	Disease      DiseaseSpec   `yaml:"disease"`
	Seeding      SeedingSpec   `yaml:"seeding"`
	NPIs         []NPISpec     `yaml:"npis,omitempty"`
	Output       OutputSpec    `yaml:"output"`
	FilterFile   string        `yaml:"filter_file,omitempty"`
	Hospital     *HospitalSpec `yaml:"hospital,omitempty"`
}

// GeographySpec points at the geodata and mobility inputs.
type GeographySpec struct {
	Geodata       string `yaml:"geodata"`
	Mobility      string `yaml:"mobility"`
	PopulationKey string `yaml:"population_key"`
	NodeNameKey   string `yaml:"node_name_key"`
}

// DiseaseSpec parameterizes the SEIR disease model.
// Alpha is the fraction of exposure occurring at the home node
// (1 - alpha weights commuting exposure); nil means "unset" and defaults
// to 1.0 at draw time, while an explicit 0 puts all exposure on commuting.
type DiseaseSpec struct {
	Alpha *float64 `yaml:"alpha,omitempty"`
	Sigma DistSpec `yaml:"sigma"`
	Gamma DistSpec `yaml:"gamma"`
	R0    DistSpec `yaml:"r0"`
}

// SeedingSpec configures importation seeding.
type SeedingSpec struct {
	Method     string `yaml:"method"`
	LambdaFile string `yaml:"lambda_file,omitempty"`
	FolderPath string `yaml:"folder_path,omitempty"`
}

// NPISpec describes one non-pharmaceutical intervention: a transmission
// reduction drawn once per realization, applied to the named nodes (all
// nodes when empty) over a date window.
type NPISpec struct {
	Name      string   `yaml:"name"`
	StartDate string   `yaml:"start_date"`
	EndDate   string   `yaml:"end_date"`
	Reduction DistSpec `yaml:"reduction"`
	Nodes     []string `yaml:"nodes,omitempty"`
}

// OutputSpec controls per-realization CSV writing.
type OutputSpec struct {
	Dir      string `yaml:"dir"`
	WriteCSV bool   `yaml:"write_csv"`
}

// HospitalSpec configures bed-needs estimation on top of incidence curves.
type HospitalSpec struct {
	Rate             float64 `yaml:"rate"`
	LengthOfStayDays int     `yaml:"length_of_stay_days"`
}

// LoadScenarioSpec reads and parses a ScenarioSpec from a YAML file.
// The spec is validated before being returned.
func LoadScenarioSpec(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario spec: %w", err)
	}
	var spec ScenarioSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse scenario spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario spec %s: %w", path, err)
	}
	return &spec, nil
}

// MarshalTo writes the spec as YAML.
func (s *ScenarioSpec) MarshalTo(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Start returns the parsed start date. Validate must have passed.
func (s *ScenarioSpec) Start() time.Time {
	t, _ := time.Parse(DateLayout, s.StartDate)
	return t
}

// End returns the parsed end date. Validate must have passed.
func (s *ScenarioSpec) End() time.Time {
	t, _ := time.Parse(DateLayout, s.EndDate)
	return t
}

// Days returns the span of the scenario in whole days.
func (s *ScenarioSpec) Days() int {
	return int(s.End().Sub(s.Start()).Hours() / 24)
}

// Steps returns the number of engine ticks over the scenario span.
func (s *ScenarioSpec) Steps() int {
	return s.Days() * s.DtPerDay
}

// Validate checks the spec for internal consistency and returns the first
// violation found. NPI windows that spill outside the scenario span are
// clamped with a warning rather than rejected.
func (s *ScenarioSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	start, err := time.Parse(DateLayout, s.StartDate)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(DateLayout, s.EndDate)
	if err != nil {
		return fmt.Errorf("end_date: %w", err)
	}
	if !end.After(start) {
		return fmt.Errorf("end_date (%s) must be after start_date (%s)", s.EndDate, s.StartDate)
	}
	if s.DtPerDay < 1 {
		return fmt.Errorf("dt_per_day must be >= 1, got %d", s.DtPerDay)
	}
	if s.Realizations < 1 {
		return fmt.Errorf("realizations must be >= 1, got %d", s.Realizations)
	}
	if s.Geography.Geodata == "" || s.Geography.Mobility == "" {
		return fmt.Errorf("geography requires both geodata and mobility paths")
	}
	if s.Geography.PopulationKey == "" || s.Geography.NodeNameKey == "" {
		return fmt.Errorf("geography requires population_key and node_name_key")
	}
	if s.Disease.Alpha != nil && (*s.Disease.Alpha < 0 || *s.Disease.Alpha > 1) {
		return fmt.Errorf("disease alpha must be in [0, 1], got %g", *s.Disease.Alpha)
	}
	for _, field := range []struct {
		name string
		d    DistSpec
	}{{"sigma", s.Disease.Sigma}, {"gamma", s.Disease.Gamma}, {"r0", s.Disease.R0}} {
		if _, err := NewSampler(field.d); err != nil {
			return fmt.Errorf("disease %s: %w", field.name, err)
		}
	}

	switch s.Seeding.Method {
	case SeedingPoisson:
		if s.Seeding.LambdaFile == "" {
			return fmt.Errorf("seeding method %q requires lambda_file", SeedingPoisson)
		}
	case SeedingFolder:
		if s.Seeding.FolderPath == "" {
			return fmt.Errorf("seeding method %q requires folder_path", SeedingFolder)
		}
	default:
		return fmt.Errorf("unknown seeding method [got: %s]", s.Seeding.Method)
	}

	for i, npi := range s.NPIs {
		if npi.Name == "" {
			return fmt.Errorf("npis[%d]: name is required", i)
		}
		ns, err := time.Parse(DateLayout, npi.StartDate)
		if err != nil {
			return fmt.Errorf("npi %q start_date: %w", npi.Name, err)
		}
		ne, err := time.Parse(DateLayout, npi.EndDate)
		if err != nil {
			return fmt.Errorf("npi %q end_date: %w", npi.Name, err)
		}
		if ne.Before(ns) {
			return fmt.Errorf("npi %q: end_date before start_date", npi.Name)
		}
		if ns.Before(start) || ne.After(end) {
			logrus.Warnf("npi %q window [%s, %s] extends outside the scenario span; it will be clamped",
				npi.Name, npi.StartDate, npi.EndDate)
		}
		if _, err := NewSampler(npi.Reduction); err != nil {
			return fmt.Errorf("npi %q reduction: %w", npi.Name, err)
		}
	}

	if s.Hospital != nil {
		if s.Hospital.Rate < 0 || s.Hospital.Rate > 1 {
			return fmt.Errorf("hospital rate must be in [0, 1], got %g", s.Hospital.Rate)
		}
		if s.Hospital.LengthOfStayDays < 1 {
			return fmt.Errorf("hospital length_of_stay_days must be >= 1, got %d", s.Hospital.LengthOfStayDays)
		}
	}
	return nil
}

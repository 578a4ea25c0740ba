package scenario

// Built-in scenario presets for common planning questions.
// Each returns a valid ScenarioSpec once geography paths are filled in.

// baseDisease is the parameter set shared by the presets: a ~5.2 day
// incubation period, infectious-stage exit rates between 3 and 5 days, and
// an R0 centered near 2.7.
func baseDisease() DiseaseSpec {
	alpha := 0.9
	return DiseaseSpec{
		Alpha: &alpha,
		Sigma: DistSpec{Type: "fixed", Params: map[string]float64{"value": 1.0 / 5.2}},
		Gamma: DistSpec{Type: "uniform", Params: map[string]float64{"min": 1.0 / 5.0, "max": 1.0 / 3.0}},
		R0:    DistSpec{Type: "lognormal", Params: map[string]float64{"mu": 1.0, "sigma": 0.15}},
	}
}

// ScenarioUnmitigated creates a spec with no interventions: the baseline
// decision-makers compare everything else against.
func ScenarioUnmitigated(seed int64, geo GeographySpec, seeding SeedingSpec) *ScenarioSpec {
	return &ScenarioSpec{
		Version: "1", Name: "unmitigated", Seed: seed,
		StartDate: "2020-03-01", EndDate: "2020-09-01",
		DtPerDay: 6, Realizations: 100,
		Geography: geo, Disease: baseDisease(), Seeding: seeding,
		Output: OutputSpec{Dir: "model_output", WriteCSV: true},
	}
}

// ScenarioStayAtHome creates a spec with a single strong stay-at-home order
// covering all nodes for eight weeks.
func ScenarioStayAtHome(seed int64, geo GeographySpec, seeding SeedingSpec) *ScenarioSpec {
	spec := ScenarioUnmitigated(seed, geo, seeding)
	spec.Name = "stay-at-home"
	spec.NPIs = []NPISpec{{
		Name: "stay-at-home", StartDate: "2020-03-20", EndDate: "2020-05-15",
		Reduction: DistSpec{Type: "uniform", Params: map[string]float64{"min": 0.5, "max": 0.7}},
	}}
	return spec
}

// ScenarioPhasedReopening creates a spec with a strong initial order that
// relaxes into a weaker distancing measure through the summer.
func ScenarioPhasedReopening(seed int64, geo GeographySpec, seeding SeedingSpec) *ScenarioSpec {
	spec := ScenarioUnmitigated(seed, geo, seeding)
	spec.Name = "phased-reopening"
	spec.NPIs = []NPISpec{
		{
			Name: "stay-at-home", StartDate: "2020-03-20", EndDate: "2020-05-15",
			Reduction: DistSpec{Type: "uniform", Params: map[string]float64{"min": 0.5, "max": 0.7}},
		},
		{
			Name: "distancing", StartDate: "2020-05-15", EndDate: "2020-09-01",
			Reduction: DistSpec{Type: "uniform", Params: map[string]float64{"min": 0.2, "max": 0.4}},
		},
	}
	return spec
}

package epi

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiplan/epiplan/epi/scenario"
)

func fixedReduction(v float64) scenario.DistSpec {
	return scenario.DistSpec{Type: "fixed", Params: map[string]float64{"value": v}}
}

func parseDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(scenario.DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestBuildNPISeries_WindowFill(t *testing.T) {
	// GIVEN one NPI covering days 5..10 of a 30 day span, all nodes
	geo := testGeography(t)
	start := parseDay(t, "2020-03-01")
	end := parseDay(t, "2020-03-31")
	npis := []scenario.NPISpec{{
		Name:      "school-closure",
		StartDate: "2020-03-06",
		EndDate:   "2020-03-11",
		Reduction: fixedReduction(0.4),
	}}

	// WHEN the series is built at 2 steps per day
	series, acts, err := BuildNPISeries(npis, start, end, 2, 2, geo, rand.NewPCG(1, 1))
	require.NoError(t, err)

	// THEN steps inside the window carry the reduction and steps outside do not
	assert.Equal(t, 60, series.Steps)
	assert.Equal(t, 0.0, series.Reduction[9][0], "last step before the window")
	assert.InDelta(t, 0.4, series.Reduction[10][0], 1e-12, "first step of day 5")
	assert.InDelta(t, 0.4, series.Reduction[19][1], 1e-12, "last step of day 9")
	assert.Equal(t, 0.0, series.Reduction[20][0], "first step of day 10")

	require.Len(t, acts, 1)
	assert.Equal(t, "school-closure", acts[0].Name)
	assert.InDelta(t, 0.4, acts[0].Reduction, 1e-12)
	assert.Equal(t, 5, acts[0].StartDay)
	assert.Equal(t, 10, acts[0].EndDay)
}

func TestBuildNPISeries_OverlapIsMultiplicative(t *testing.T) {
	// Two stacked reductions of 0.5 retain 0.25 of transmission, not 0.
	geo := testGeography(t)
	start := parseDay(t, "2020-03-01")
	end := parseDay(t, "2020-03-31")
	npis := []scenario.NPISpec{
		{Name: "a", StartDate: "2020-03-01", EndDate: "2020-03-31", Reduction: fixedReduction(0.5)},
		{Name: "b", StartDate: "2020-03-01", EndDate: "2020-03-31", Reduction: fixedReduction(0.5)},
	}

	series, acts, err := BuildNPISeries(npis, start, end, 1, 2, geo, rand.NewPCG(1, 1))
	require.NoError(t, err)

	assert.Len(t, acts, 2)
	assert.InDelta(t, 0.75, series.Reduction[0][0], 1e-12)
}

func TestBuildNPISeries_ClampsToSpan(t *testing.T) {
	geo := testGeography(t)
	start := parseDay(t, "2020-03-01")
	end := parseDay(t, "2020-03-31")
	npis := []scenario.NPISpec{{
		Name:      "long-lockdown",
		StartDate: "2020-02-01",
		EndDate:   "2020-12-31",
		Reduction: fixedReduction(0.3),
	}}

	series, acts, err := BuildNPISeries(npis, start, end, 1, 2, geo, rand.NewPCG(1, 1))
	require.NoError(t, err)

	require.Len(t, acts, 1)
	assert.Equal(t, 0, acts[0].StartDay)
	assert.Equal(t, 30, acts[0].EndDay)
	assert.InDelta(t, 0.3, series.Reduction[0][0], 1e-12)
	assert.InDelta(t, 0.3, series.Reduction[29][1], 1e-12)
}

func TestBuildNPISeries_WindowOutsideSpan(t *testing.T) {
	geo := testGeography(t)
	start := parseDay(t, "2020-03-01")
	end := parseDay(t, "2020-03-31")
	npis := []scenario.NPISpec{{
		Name:      "too-late",
		StartDate: "2020-06-01",
		EndDate:   "2020-07-01",
		Reduction: fixedReduction(0.9),
	}}

	series, acts, err := BuildNPISeries(npis, start, end, 1, 2, geo, rand.NewPCG(1, 1))
	require.NoError(t, err)
	assert.Empty(t, acts)
	assert.Equal(t, 0.0, series.Reduction[0][0])
}

func TestBuildNPISeries_TargetedNodes(t *testing.T) {
	geo := testGeography(t)
	start := parseDay(t, "2020-03-01")
	end := parseDay(t, "2020-03-31")
	npis := []scenario.NPISpec{{
		Name:      "county-order",
		StartDate: "2020-03-01",
		EndDate:   "2020-03-31",
		Reduction: fixedReduction(0.5),
		Nodes:     []string{"24003"},
	}}

	series, _, err := BuildNPISeries(npis, start, end, 1, 2, geo, rand.NewPCG(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, series.Reduction[0][0], "untargeted node stays at zero")
	assert.InDelta(t, 0.5, series.Reduction[0][1], 1e-12)
}

func TestBuildNPISeries_UnknownNode(t *testing.T) {
	geo := testGeography(t)
	start := parseDay(t, "2020-03-01")
	end := parseDay(t, "2020-03-31")
	npis := []scenario.NPISpec{{
		Name:      "bad",
		StartDate: "2020-03-01",
		EndDate:   "2020-03-31",
		Reduction: fixedReduction(0.5),
		Nodes:     []string{"99999"},
	}}

	_, _, err := BuildNPISeries(npis, start, end, 1, 2, geo, rand.NewPCG(1, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `npi "bad" targets unknown node "99999"`)
}

func TestBuildNPISeries_ClampsDrawnReduction(t *testing.T) {
	// A draw above 1 caps at full suppression rather than flipping beta's sign.
	geo := testGeography(t)
	start := parseDay(t, "2020-03-01")
	end := parseDay(t, "2020-03-31")
	npis := []scenario.NPISpec{{
		Name:      "over",
		StartDate: "2020-03-01",
		EndDate:   "2020-03-31",
		Reduction: fixedReduction(1.7),
	}}

	series, acts, err := BuildNPISeries(npis, start, end, 1, 2, geo, rand.NewPCG(1, 1))
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, 1.0, acts[0].Reduction)
	assert.Equal(t, 1.0, series.Reduction[0][0])
}

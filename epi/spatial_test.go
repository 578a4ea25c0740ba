package epi

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/epiplan/epiplan/internal/testutil"
)

func TestLoadGeography(t *testing.T) {
	// GIVEN a two node geodata CSV and a matching mobility matrix
	dir := t.TempDir()
	geodata := testutil.WriteFile(t, dir, "geodata.csv", testutil.TwoNodeGeodata)
	mobility := testutil.WriteFile(t, dir, "mobility.txt", testutil.TwoNodeMobility)

	// WHEN the geography is loaded
	geo, err := LoadGeography("test", geodata, mobility, "pop", "geoid")
	require.NoError(t, err)

	// THEN names, populations and mobility are wired together
	assert.Equal(t, 2, geo.NumNodes)
	assert.Equal(t, []string{"24001", "24003"}, geo.NodeNames)
	assert.Equal(t, []float64{90000, 10000}, geo.Populations)
	assert.Equal(t, 500.0, geo.Mobility.At(0, 1))
	assert.Equal(t, 200.0, geo.Mobility.At(1, 0))

	i, ok := geo.NodeIndex("24003")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = geo.NodeIndex("99999")
	assert.False(t, ok)
}

func TestLoadGeography_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	geodata := testutil.WriteFile(t, dir, "geodata.csv", testutil.TwoNodeGeodata)
	mobility := testutil.WriteFile(t, dir, "mobility.txt", testutil.TwoNodeMobility)

	_, err := LoadGeography("test", geodata, mobility, "population2010", "geoid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "popnodes_key: population2010 does not correspond to a column")

	_, err = LoadGeography("test", geodata, mobility, "pop", "fips")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nodenames_key: fips does not correspond to a column")
}

func TestLoadGeography_DuplicateNodenames(t *testing.T) {
	dir := t.TempDir()
	geodata := testutil.WriteFile(t, dir, "geodata.csv", "geoid,pop\n24001,90000\n24001,10000\n")
	mobility := testutil.WriteFile(t, dir, "mobility.txt", testutil.TwoNodeMobility)

	_, err := LoadGeography("test", geodata, mobility, "pop", "geoid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate nodenames in geodata")
}

func TestLoadGeography_MobilityShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	geodata := testutil.WriteFile(t, dir, "geodata.csv", testutil.TwoNodeGeodata)
	mobility := testutil.WriteFile(t, dir, "mobility.txt", "0 1 2\n3 0 4\n5 6 0\n")

	_, err := LoadGeography("test", geodata, mobility, "pop", "geoid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mobility data must have dimensions of length of geodata (2, 2), actual: (3, 3)")
}

func TestLoadGeography_MoversExceedPopulation(t *testing.T) {
	dir := t.TempDir()
	geodata := testutil.WriteFile(t, dir, "geodata.csv", testutil.TwoNodeGeodata)
	mobility := testutil.WriteFile(t, dir, "mobility.txt", "0 500\n20000 0\n")

	_, err := LoadGeography("test", geodata, mobility, "pop", "geoid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mobility entries exceed the source node populations")
	assert.Contains(t, err.Error(), `population of "24003"`)
}

func TestLoadGeography_RaggedMatrix(t *testing.T) {
	dir := t.TempDir()
	geodata := testutil.WriteFile(t, dir, "geodata.csv", testutil.TwoNodeGeodata)
	mobility := testutil.WriteFile(t, dir, "mobility.txt", "0 500\n200\n")

	_, err := LoadGeography("test", geodata, mobility, "pop", "geoid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged matrix")
}

func TestLoadGeography_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	geodata := testutil.WriteFile(t, dir, "geodata.csv", testutil.TwoNodeGeodata)

	_, err := LoadGeography("test", filepath.Join(dir, "nope.csv"), filepath.Join(dir, "nope.txt"), "pop", "geoid")
	assert.Error(t, err)

	_, err = LoadGeography("test", geodata, filepath.Join(dir, "nope.txt"), "pop", "geoid")
	assert.Error(t, err)
}

func TestGeography_CommuteFractions(t *testing.T) {
	geo, err := NewGeography("test",
		[]string{"a", "b"},
		[]float64{1000, 500},
		mat.NewDense(2, 2, []float64{0, 100, 50, 0}))
	require.NoError(t, err)

	frac := geo.CommuteFractions()
	assert.InDelta(t, 0.1, frac.At(0, 1), 1e-12)
	assert.InDelta(t, 0.1, frac.At(1, 0), 1e-12)
	assert.Equal(t, 0.0, frac.At(0, 0))
}

func TestNewGeography_NonPositivePopulation(t *testing.T) {
	// GIVEN a node with zero population, which would make the
	// commute fractions divide by zero
	_, err := NewGeography("test",
		[]string{"a", "b"},
		[]float64{1000, 0},
		mat.NewDense(2, 2, []float64{0, 100, 0, 0}))

	// THEN construction is rejected up front
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-positive population")
	assert.Contains(t, err.Error(), `"b"`)
}

func TestLoadGeodata_NonPositivePopulation(t *testing.T) {
	dir := t.TempDir()
	geodata := testutil.WriteFile(t, dir, "geodata.csv", "geoid,pop\n24001,0\n")
	mobility := testutil.WriteFile(t, dir, "mobility.txt", "0\n")

	_, err := LoadGeography("test", geodata, mobility, "pop", "geoid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-positive population")
}

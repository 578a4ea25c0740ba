package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiplan/epiplan/internal/testutil"
)

const realizationCSV = `time,comp,24001,24003
0,S,90000,10000
0,E,0,0
0,I1,1,0
0,I2,2,0
0,I3,3,0
0,R,0,0
0,cumI,6,0
0.5,S,89990,10000
0.5,E,4,0
0.5,I1,2,1
0.5,I2,2,1
0.5,I3,2,1
0.5,R,0,0
0.5,cumI,12,3
`

func TestLoadCurves_SumsNodesAndFoldsInfectious(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "realization.csv", realizationCSV)

	curves, err := loadCurves(path, "")
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.5}, curves.times)
	assert.Equal(t, []float64{100000, 99990}, curves.series["S"])
	assert.Equal(t, []float64{6, 9}, curves.series["I"], "I1+I2+I3 across both nodes")
	assert.Equal(t, []float64{6, 15}, curves.series["cumI"])
}

func TestLoadCurves_SingleNode(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "realization.csv", realizationCSV)

	curves, err := loadCurves(path, "24003")
	require.NoError(t, err)

	assert.Equal(t, []float64{10000, 10000}, curves.series["S"])
	assert.Equal(t, []float64{0, 3}, curves.series["I"])

	_, err = loadCurves(path, "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "99999" not found`)
}

func TestRenderCurves_WritesPNG(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "realization.csv", realizationCSV)
	curves, err := loadCurves(path, "")
	require.NoError(t, err)

	out := filepath.Join(dir, "curves.png")
	require.NoError(t, renderCurves(curves, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

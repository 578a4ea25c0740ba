package epi

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Geography holds the spatial structure of a scenario: the set of nodes
// (counties or other jurisdictions), their populations, and the daily
// mobility matrix between them.
type Geography struct {
	Name        string
	NodeNames   []string
	Populations []float64
	// Mobility[i][j] is the number of people moving daily from node i to node j.
	Mobility *mat.Dense
	NumNodes int

	nodeIndex map[string]int
}

// LoadGeography reads a geodata CSV and a whitespace-separated KxK mobility
// matrix and validates them against each other.
//
// popKey and nameKey name the geodata columns holding node populations and
// node identifiers. Node identifiers are read as strings so that geoids with
// leading zeros survive intact.
func LoadGeography(name, geodataPath, mobilityPath, popKey, nameKey string) (*Geography, error) {
	nodeNames, populations, err := loadGeodata(geodataPath, popKey, nameKey)
	if err != nil {
		return nil, fmt.Errorf("geodata %s: %w", geodataPath, err)
	}

	mobility, err := loadMatrix(mobilityPath)
	if err != nil {
		return nil, fmt.Errorf("mobility %s: %w", mobilityPath, err)
	}
	return NewGeography(name, nodeNames, populations, mobility)
}

// NewGeography assembles and validates a Geography from already-loaded
// data. Node names must be unique, populations positive, and mobility
// must be KxK with no flow exceeding its source population.
func NewGeography(name string, nodeNames []string, populations []float64, mobility *mat.Dense) (*Geography, error) {
	k := len(nodeNames)
	if len(populations) != k {
		return nil, fmt.Errorf("got %d populations for %d nodes", len(populations), k)
	}
	for i, pop := range populations {
		if pop <= 0 {
			return nil, fmt.Errorf("non-positive population %g for node %q", pop, nodeNames[i])
		}
	}
	rows, cols := mobility.Dims()
	if rows != k || cols != k {
		return nil, fmt.Errorf("mobility data must have dimensions of length of geodata (%d, %d), actual: (%d, %d)", k, k, rows, cols)
	}

	geo := &Geography{
		Name:        name,
		NodeNames:   nodeNames,
		Populations: populations,
		Mobility:    mobility,
		NumNodes:    k,
		nodeIndex:   make(map[string]int, k),
	}
	for i, n := range nodeNames {
		if _, dup := geo.nodeIndex[n]; dup {
			return nil, fmt.Errorf("there are duplicate nodenames in geodata: %q", n)
		}
		geo.nodeIndex[n] = i
	}

	if err := geo.validateMobility(); err != nil {
		return nil, err
	}
	return geo, nil
}

// NodeIndex returns the index of the named node and whether it exists.
func (g *Geography) NodeIndex(name string) (int, bool) {
	i, ok := g.nodeIndex[name]
	return i, ok
}

// CommuteFractions returns a KxK matrix where entry (i, j) is the fraction
// of node i's population that moves to node j daily.
func (g *Geography) CommuteFractions() *mat.Dense {
	k := g.NumNodes
	frac := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			frac.Set(i, j, g.Mobility.At(i, j)/g.Populations[i])
		}
	}
	return frac
}

// validateMobility rejects matrices where any flow out of a node exceeds
// that node's population.
func (g *Geography) validateMobility() error {
	var violations []string
	for i := 0; i < g.NumNodes; i++ {
		for j := 0; j < g.NumNodes; j++ {
			v := g.Mobility.At(i, j)
			if v > g.Populations[i] {
				violations = append(violations,
					fmt.Sprintf("(%d, %d) = %g > population of %q = %g", i, j, v, g.NodeNames[i], g.Populations[i]))
			}
		}
	}
	if len(violations) > 0 {
		return fmt.Errorf("mobility entries exceed the source node populations in geodata: %s", strings.Join(violations, "; "))
	}
	return nil
}

// loadGeodata reads node names and populations from a geodata CSV,
// selecting columns by header name.
func loadGeodata(path, popKey, nameKey string) ([]string, []float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("geodata has no data rows")
	}

	header := records[0]
	popCol, nameCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case popKey:
			popCol = i
		case nameKey:
			nameCol = i
		}
	}
	if popCol < 0 {
		return nil, nil, fmt.Errorf("popnodes_key: %s does not correspond to a column in geodata", popKey)
	}
	if nameCol < 0 {
		return nil, nil, fmt.Errorf("nodenames_key: %s does not correspond to a column in geodata", nameKey)
	}

	var names []string
	var populations []float64
	seen := make(map[string]bool)
	for rowIdx, record := range records[1:] {
		name := strings.TrimSpace(record[nameCol])
		if seen[name] {
			return nil, nil, fmt.Errorf("there are duplicate nodenames in geodata: %q", name)
		}
		seen[name] = true

		pop, err := strconv.ParseFloat(strings.TrimSpace(record[popCol]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid population at row %d: %w", rowIdx+2, err)
		}
		names = append(names, name)
		populations = append(populations, pop)
	}
	return names, populations, nil
}

// loadMatrix reads a whitespace-separated numeric matrix. Every row must
// have the same number of columns.
func loadMatrix(path string) (*mat.Dense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var values []float64
	rows, cols := 0, -1
	for lineIdx, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if cols < 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("ragged matrix: line %d has %d columns, want %d", lineIdx+1, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q at line %d: %w", f, lineIdx+1, err)
			}
			values = append(values, v)
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("matrix file is empty")
	}
	return mat.NewDense(rows, cols, values), nil
}

package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/epiplan/epiplan/epi"
)

var (
	plotCSVPath string
	plotOutPath string
	plotNode    string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render epidemic curves from a realization CSV",
	Long:  "Read a realization CSV written by `run` and render a PNG of the epidemic curves (S, E, combined infectious, R, and cumulative infections), either for one node or summed over the geography.",
	Run: func(cmd *cobra.Command, args []string) {
		curves, err := loadCurves(plotCSVPath, plotNode)
		if err != nil {
			logrus.Fatalf("Failed to read curves: %v", err)
		}
		if err := renderCurves(curves, plotOutPath); err != nil {
			logrus.Fatalf("Failed to render chart: %v", err)
		}
		logrus.Infof("Wrote chart to %s", plotOutPath)
	},
}

// curveSet holds one time axis plus a named series per plotted quantity.
type curveSet struct {
	times  []float64
	series map[string][]float64
}

// loadCurves parses a long-format realization CSV into plottable curves.
// node selects a single geography column; empty sums over all nodes.
// The three infectious stages are combined into one "I" curve.
func loadCurves(path, node string) (*curveSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s has no data rows", path)
	}

	header := records[0]
	nodeCol := -1
	if node != "" {
		for i, h := range header[2:] {
			if h == node {
				nodeCol = i + 2
			}
		}
		if nodeCol < 0 {
			return nil, fmt.Errorf("node %q not found in %s", node, path)
		}
	}

	curves := &curveSet{series: map[string][]float64{}}
	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad time value %q: %w", record[0], err)
		}
		comp := record[1]

		var value float64
		if nodeCol >= 0 {
			value, err = strconv.ParseFloat(record[nodeCol], 64)
			if err != nil {
				return nil, fmt.Errorf("bad value %q: %w", record[nodeCol], err)
			}
		} else {
			for _, cell := range record[2:] {
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("bad value %q: %w", cell, err)
				}
				value += v
			}
		}

		label := comp
		switch comp {
		case epi.CompartmentNames[epi.CompI1], epi.CompartmentNames[epi.CompI2], epi.CompartmentNames[epi.CompI3]:
			label = "I"
		}
		if comp == epi.CompartmentNames[epi.CompS] {
			curves.times = append(curves.times, t)
		}
		if label == "I" && comp != epi.CompartmentNames[epi.CompI1] {
			// fold I2/I3 into the sample appended by I1
			last := len(curves.series[label]) - 1
			curves.series[label][last] += value
			continue
		}
		curves.series[label] = append(curves.series[label], value)
	}
	return curves, nil
}

// renderCurves draws the standard planning chart: one line per quantity
// over time in days.
func renderCurves(curves *curveSet, outPath string) error {
	order := []struct {
		label string
		style chart.Style
	}{
		{"S", chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2}},
		{"E", chart.Style{StrokeColor: chart.ColorOrange, StrokeWidth: 2}},
		{"I", chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2}},
		{"R", chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2}},
		{"cumI", chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 1}},
	}
	var series []chart.Series
	for _, item := range order {
		values, ok := curves.series[item.label]
		if !ok || len(values) != len(curves.times) {
			return fmt.Errorf("series %q missing or misaligned (%d values for %d samples)", item.label, len(values), len(curves.times))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    item.label,
			XValues: curves.times,
			YValues: values,
			Style:   item.style,
		})
	}

	graph := chart.Chart{
		Title:  "Epidemic curves",
		Width:  1024,
		Height: 640,
		XAxis:  chart.XAxis{Name: "Day"},
		YAxis:  chart.YAxis{Name: "People"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return graph.Render(chart.PNG, out)
}

func init() {
	plotCmd.Flags().StringVar(&plotCSVPath, "csv", "", "Path to a realization CSV written by run")
	_ = plotCmd.MarkFlagRequired("csv")
	plotCmd.Flags().StringVar(&plotOutPath, "out", "epidemic_curves.png", "Output PNG path")
	plotCmd.Flags().StringVar(&plotNode, "node", "", "Plot a single node (empty = sum over all nodes)")

	rootCmd.AddCommand(plotCmd)
}

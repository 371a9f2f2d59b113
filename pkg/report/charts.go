// Package report renders dashboard charts as PNG images, replacing the chart
// widgets of the original web dashboard.
package report

import (
	"bytes"
	"errors"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/andeanbio/biomon/pkg/aggregate"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("report: no data to chart")

const (
	chartWidth  = 900
	chartHeight = 400

	sightingsHex = "059669"
	speciesHex   = "0891b2"
)

// palette mirrors the color cycle of the original dashboard's pie chart.
var palette = []string{"059669", "0891b2", "7c3aed", "dc2626", "ea580c", "ca8a04"}

// MonthlyChart plots the sightings and distinct-species series per month.
func MonthlyChart(series []aggregate.MonthlyPoint) (*bytes.Buffer, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	xValues := make([]time.Time, len(series))
	sightings := make([]float64, len(series))
	speciesCounts := make([]float64, len(series))
	for i, point := range series {
		xValues[i] = point.Month
		sightings[i] = float64(point.Sightings)
		speciesCounts[i] = float64(point.Species)
	}

	graph := &chart.Chart{
		Title:  "Sightings per month",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		Series: []chart.Series{
			timeSeries("Sightings", xValues, sightings, sightingsHex),
			timeSeries("Distinct species", xValues, speciesCounts, speciesHex),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}

	buf := new(bytes.Buffer)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// SpeciesChart plots the species ranking as a donut, like the distribution
// widget of the original dashboard.
func SpeciesChart(ranking []aggregate.SpeciesRank) (*bytes.Buffer, error) {
	if len(ranking) == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, len(ranking))
	for i, rank := range ranking {
		values[i] = chart.Value{
			Value: float64(rank.Count),
			Label: rank.Name,
			Style: chart.Style{
				FillColor: drawing.ColorFromHex(palette[i%len(palette)]),
			},
		}
	}

	graph := chart.DonutChart{
		Title:  "Sightings by species",
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}

	buf := new(bytes.Buffer)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func timeSeries(name string, xValues []time.Time, yValues []float64, hex string) chart.TimeSeries {
	color := drawing.ColorFromHex(hex)
	return chart.TimeSeries{
		Name:    name,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 2.0,
			FillColor:   color.WithAlpha(32),
		},
	}
}

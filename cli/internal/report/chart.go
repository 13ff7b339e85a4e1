package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/zusistats/zusistats/pkg/summary"
	"github.com/zusistats/zusistats/pkg/types"
)

// ErrNoChartData is returned when no run has two samples with both position
// and speed recorded.
var ErrNoChartData = errors.New("report: no run has enough samples to chart")

var seriesColors = []chart.Style{
	{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
	{StrokeColor: chart.ColorRed, StrokeWidth: 2},
	{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
	{StrokeColor: chart.ColorOrange, StrokeWidth: 2},
	{StrokeColor: chart.ColorCyan, StrokeWidth: 2},
}

// RenderChart draws speed (km/h) over position (km) for every run as a PNG.
// Samples missing position or speed are skipped; runs with fewer than two
// usable samples are left out.
func RenderChart(w io.Writer, runs []*types.Run) error {
	series := make([]chart.Series, 0, len(runs))
	for _, run := range runs {
		xs, ys := speedProfile(run.Samples)
		if len(xs) < 2 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    filepath.Base(run.Name),
			XValues: xs,
			YValues: ys,
			Style:   seriesColors[len(series)%len(seriesColors)],
		})
	}
	if len(series) == 0 {
		return ErrNoChartData
	}

	ch := chart.Chart{
		Title:      "Speed profile",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      1280,
		Height:     640,
		XAxis:      chart.XAxis{Name: "position (km)"},
		YAxis:      chart.YAxis{Name: "speed (km/h)"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("report: render chart: %w", err)
	}
	return nil
}

func speedProfile(entries []types.Entry) (xs, ys []float64) {
	for _, e := range entries {
		if !e.HasPosition() || !e.HasSpeed() {
			continue
		}
		xs = append(xs, e.Position/1000)
		ys = append(ys, summary.KMH(e.Speed))
	}
	return xs, ys
}

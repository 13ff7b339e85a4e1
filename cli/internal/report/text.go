package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/zusistats/zusistats/cli/internal/config"
	"github.com/zusistats/zusistats/pkg/summary"
)

// Write renders s to w in the given format.
func Write(w io.Writer, format string, s summary.Summary) error {
	switch format {
	case config.FormatText:
		return WriteText(w, s)
	case config.FormatJSON:
		return WriteJSON(w, s)
	case config.FormatPrometheus:
		return summary.WritePrometheus(w, s)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

// WriteHeader prints the pattern being analysed and, in debug mode, every
// file that matched it.
func WriteHeader(w io.Writer, pattern string, files []string, debug bool) {
	fmt.Fprintf(w, "Analyse files by pattern: %s\n", pattern)
	if !debug {
		return
	}
	for _, f := range files {
		fmt.Fprintf(w, "%q\n", f)
	}
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s summary.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

// WriteText writes the group results followed by a per-run table.
func WriteText(w io.Writer, s summary.Summary) error {
	g := s.Group

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Analysis results:")
	if g.Error != "" {
		fmt.Fprintf(w, "no group statistics: %s\n", g.Error)
		return nil
	}

	line := func(label, metric, value string) {
		if err, failed := g.Errors[metric]; failed {
			fmt.Fprintf(w, "%s: error: %s\n", label, err)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", label, value)
	}
	line("total distance", summary.MetricDistance, fmt.Sprintf("%v m", g.TotalDistance))
	line("average distance", summary.MetricAverageDistance, fmt.Sprintf("%v m", g.AverageDistance))
	line("average speed", summary.MetricAverageSpeed, speed(g.AverageSpeed))
	line("pure average speed", summary.MetricPureAverageSpeed, speed(g.PureAverageSpeed))
	line("total driving time", summary.MetricDrivingTime, g.TotalDrivingTime.String())
	line("total pure driving time", summary.MetricPureDrivingTime, g.TotalPureDrivingTime.String())

	fmt.Fprintln(w)
	return writeRunTable(w, s.Runs)
}

func writeRunTable(w io.Writer, runs []summary.RunStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tDATE\tSAMPLES\tDISTANCE\tDRIVING\tPURE\tAVG KM/H\tPURE KM/H\tSTATUS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			filepath.Base(r.Name),
			date(r.Date),
			r.Samples,
			cell(r, summary.MetricDistance, fmt.Sprintf("%.2f m", r.Distance)),
			cell(r, summary.MetricDrivingTime, r.DrivingTime.String()),
			cell(r, summary.MetricPureDrivingTime, r.PureDrivingTime.String()),
			cell(r, summary.MetricAverageSpeed, fmt.Sprintf("%.2f", summary.KMH(r.AverageSpeed))),
			cell(r, summary.MetricPureAverageSpeed, fmt.Sprintf("%.2f", summary.KMH(r.PureAverageSpeed))),
			r.Status,
		)
	}
	return tw.Flush()
}

func speed(mps float64) string {
	return fmt.Sprintf("%v m/s = %v km/h", mps, summary.KMH(mps))
}

func cell(r summary.RunStats, metric, value string) string {
	if !r.OK(metric) {
		return "-"
	}
	return value
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

package api

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zusistats/zusistats/pkg/summary"
)

// DiagnosticHint is one human-readable insight about a run's recording.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level string `json:"level"`
	// Title is a short label.
	Title string `json:"title"`
	// Detail is the full explanation.
	Detail string `json:"detail"`
	// Value is an optional numeric value associated with this hint.
	Value *float64 `json:"value,omitempty"`
}

// Idle share thresholds, in percent of the driving time.
const (
	idleInfoPct    = 25
	idleWarningPct = 50
)

var levelOrder = map[string]int{"critical": 0, "warning": 1, "info": 2, "ok": 3}

// computeDiagnostics derives diagnostic hints from a run's statistics.
// Hints are ordered: critical first, then warnings, then info.
func computeDiagnostics(rs summary.RunStats) []DiagnosticHint {
	if rs.Samples == 0 || rs.ValidSamples == 0 {
		return []DiagnosticHint{{
			Key:   "no_valid_samples",
			Level: "critical",
			Title: "No usable samples",
			Detail: fmt.Sprintf(
				"The file holds %d samples but none has both a position and a speed recorded. "+
					"No statistic can be computed for this run.",
				rs.Samples,
			),
		}}
	}

	var hints []DiagnosticHint

	if len(rs.Errors) > 0 {
		names := make([]string, 0, len(rs.Errors))
		for m := range rs.Errors {
			names = append(names, m)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, m := range names {
			parts[i] = m + ": " + rs.Errors[m]
		}
		hints = append(hints, DiagnosticHint{
			Key:    "metrics_unavailable",
			Level:  "warning",
			Title:  fmt.Sprintf("%d metrics unavailable", len(names)),
			Detail: "Some statistics could not be computed (" + strings.Join(parts, "; ") + ").",
		})
	}

	if skipped := rs.Samples - rs.ValidSamples; skipped > 0 {
		v := float64(skipped)
		hints = append(hints, DiagnosticHint{
			Key:   "unrecorded_samples",
			Level: "info",
			Title: fmt.Sprintf("%d samples filtered", skipped),
			Detail: fmt.Sprintf(
				"%d of %d samples lack a position or a speed. They are left out of the distance "+
					"and pure driving time.",
				skipped, rs.Samples,
			),
			Value: &v,
		})
	}

	if rs.OK(summary.MetricDrivingTime) && rs.DrivingTime > rs.ValidWindow {
		v := (rs.DrivingTime - rs.ValidWindow).Seconds()
		hints = append(hints, DiagnosticHint{
			Key:   "window_mismatch",
			Level: "info",
			Title: "Driving time exceeds recorded span",
			Detail: fmt.Sprintf(
				"The driving time (%s) spans every sample, while distance covers only the %s "+
					"between the first and last fully recorded sample. Average speed is lower "+
					"than the distance alone suggests.",
				rs.DrivingTime, rs.ValidWindow,
			),
			Value: &v,
		})
	}

	if rs.OK(summary.MetricDrivingTime) && rs.OK(summary.MetricPureDrivingTime) {
		if pct := rs.IdlePct(); pct >= idleInfoPct {
			v := pct
			level := "info"
			if pct >= idleWarningPct {
				level = "warning"
			}
			hints = append(hints, DiagnosticHint{
				Key:   "idle_share",
				Level: level,
				Title: fmt.Sprintf("%.0f%% standing", pct),
				Detail: fmt.Sprintf(
					"The vehicle stood still for %s of the %s driving time.",
					rs.IdleTime, rs.DrivingTime,
				),
				Value: &v,
			})
		}
	}

	if rs.OK(summary.MetricDistance) && rs.Distance < 0 {
		v := rs.Distance
		hints = append(hints, DiagnosticHint{
			Key:   "negative_distance",
			Level: "warning",
			Title: "Negative distance",
			Detail: fmt.Sprintf(
				"The last position is %.1f m behind the first. The route was driven against "+
					"its kilometrage, or the recording is out of order.",
				-rs.Distance,
			),
			Value: &v,
		})
	}

	if len(hints) == 0 {
		return []DiagnosticHint{{
			Key:    "complete",
			Level:  "ok",
			Title:  "Complete recording",
			Detail: "Every sample is fully recorded and every statistic was computed.",
		}}
	}

	sort.SliceStable(hints, func(i, j int) bool {
		return levelOrder[hints[i].Level] < levelOrder[hints[j].Level]
	})
	return hints
}

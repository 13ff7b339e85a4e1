package api

import (
	"testing"
	"time"

	"github.com/zusistats/zusistats/pkg/summary"
)

func keys(hints []DiagnosticHint) map[string]string {
	m := make(map[string]string, len(hints))
	for _, h := range hints {
		m[h.Key] = h.Level
	}
	return m
}

func TestDiagnostics_NoValidSamples(t *testing.T) {
	hints := computeDiagnostics(summary.RunStats{Samples: 3, ValidSamples: 0})
	if len(hints) != 1 || hints[0].Key != "no_valid_samples" || hints[0].Level != "critical" {
		t.Errorf("hints = %+v, want single critical no_valid_samples", hints)
	}
}

func TestDiagnostics_Complete(t *testing.T) {
	rs := summary.RunStats{
		Samples:         4,
		ValidSamples:    4,
		ValidWindow:     summary.Duration(30 * time.Second),
		Distance:        100,
		DrivingTime:     summary.Duration(30 * time.Second),
		PureDrivingTime: summary.Duration(30 * time.Second),
	}
	hints := computeDiagnostics(rs)
	if len(hints) != 1 || hints[0].Key != "complete" || hints[0].Level != "ok" {
		t.Errorf("hints = %+v, want single ok complete", hints)
	}
}

func TestDiagnostics_IdleShare(t *testing.T) {
	rs := summary.RunStats{
		Samples:         4,
		ValidSamples:    4,
		ValidWindow:     summary.Duration(100 * time.Second),
		DrivingTime:     summary.Duration(100 * time.Second),
		PureDrivingTime: summary.Duration(70 * time.Second),
		IdleTime:        summary.Duration(30 * time.Second),
	}
	if got := keys(computeDiagnostics(rs))["idle_share"]; got != "info" {
		t.Errorf("idle_share level at 30%% = %q, want info", got)
	}

	rs.PureDrivingTime = summary.Duration(40 * time.Second)
	rs.IdleTime = summary.Duration(60 * time.Second)
	if got := keys(computeDiagnostics(rs))["idle_share"]; got != "warning" {
		t.Errorf("idle_share level at 60%% = %q, want warning", got)
	}
}

func TestDiagnostics_PartialRun(t *testing.T) {
	rs := summary.RunStats{
		Samples:      5,
		ValidSamples: 3,
		ValidWindow:  summary.Duration(10 * time.Second),
		DrivingTime:  summary.Duration(20 * time.Second),
		Distance:     -50,
		Errors:       map[string]string{summary.MetricPureDrivingTime: "zero driving time"},
	}
	hints := computeDiagnostics(rs)
	got := keys(hints)

	for key, level := range map[string]string{
		"metrics_unavailable": "warning",
		"unrecorded_samples":  "info",
		"window_mismatch":     "info",
		"negative_distance":   "warning",
	} {
		if got[key] != level {
			t.Errorf("%s level = %q, want %q", key, got[key], level)
		}
	}
	if _, ok := got["idle_share"]; ok {
		t.Error("idle_share reported although pure driving time failed")
	}

	for i := 1; i < len(hints); i++ {
		if levelOrder[hints[i-1].Level] > levelOrder[hints[i].Level] {
			t.Errorf("hints not ordered by level: %s before %s", hints[i-1].Level, hints[i].Level)
		}
	}
}

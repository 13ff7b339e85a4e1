package api

import "github.com/zusistats/zusistats/pkg/summary"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	// State is "ok" when every run computed fully, "degraded" when any run
	// is partial or failed, and "empty" when no run is loaded.
	State        string `json:"state"`
	Algorithm    string `json:"algorithm"`
	RunCount     int    `json:"run_count"`
	OKCount      int    `json:"ok_count"`
	PartialCount int    `json:"partial_count"`
	FailedCount  int    `json:"failed_count"`
	AlertCount   int    `json:"alert_count"`
}

// RunResponse is one run in GET /api/v1/runs or GET /api/v1/runs/{name}.
type RunResponse struct {
	summary.RunStats
	ID          string           `json:"id"` // base file name; not unique across directories, see Name
	Diagnostics []DiagnosticHint `json:"diagnostics"`
	LoadedAt    string           `json:"loaded_at"` // RFC3339
}

// SummaryResponse is the payload for GET /api/v1/summary.
type SummaryResponse struct {
	summary.Summary
	GeneratedAt string `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

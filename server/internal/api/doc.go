// Package api implements the HTTP REST API for zusistats-server.
//
// New(store, alerts) returns an http.Handler that serves:
//
//	GET /api/v1/health             run counts by status, firing alert count
//	GET /api/v1/runs               all loaded runs ([]RunResponse) with diagnostics
//	GET /api/v1/runs?name={full}   single run by full (e.g. absolute) name
//	GET /api/v1/runs/{name}        single run by relative name or base file name;
//	                               404 if unknown, 409 if the base name is shared
//	GET /api/v1/summary            per-run stats plus group aggregates
//	GET /api/v1/alerts             firing and recently resolved alerts
//
// Metrics(store) serves the same summary in the Prometheus text format.
//
// All API endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for non-GET methods
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api

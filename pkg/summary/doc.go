// Package summary projects analysis results into plain, JSON-ready values.
//
// Summarize runs every single-run statistic and every group aggregate once
// and records each outcome, value or error, so presentation layers (the CLI
// report, the REST API, the WebSocket stream, Prometheus exposition) never
// call the analysis package themselves. Failed metrics are reported by name
// in the Errors map rather than aborting the whole summary.
package summary

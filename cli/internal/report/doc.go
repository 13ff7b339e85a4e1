// Package report renders a summary.Summary for the terminal (text, JSON or
// Prometheus exposition) and draws the speed profile of runs as a PNG chart.
package report

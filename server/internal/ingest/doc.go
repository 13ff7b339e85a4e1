// Package ingest feeds the run store from result files on disk.
//
// Ingester.Scan loads every file matching the configured glob pattern and
// drops runs whose file has gone. Ingester.Run scans once and then follows
// the pattern's directory with fsnotify, reloading changed files and removing
// deleted ones. Every reloaded run is re-evaluated against the alert rules;
// alerts of a removed run are resolved.
//
// Files that fail to decode are logged and skipped. A run whose file turns
// unreadable while being rewritten keeps its last good version.
package ingest

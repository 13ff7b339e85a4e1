// Package types defines the shared Go types used by the CLI, the server and
// the statistics engine. These are the canonical in-memory representations
// of a recorded run, separate from the on-disk result formats decoded by
// pkg/resultfile.
package types

// Package analysis derives kinematic statistics from recorded runs.
//
// analyser.go provides the single-run Analyser. It wraps a types.View and
// computes distance, driving time, pure driving time (idle intervals
// removed), average speed and pure average speed. Samples whose position or
// speed carry the types.Unrecorded sentinel are filtered out of every
// computation except DrivingTime, which uses the raw first and last samples.
//
// group.go provides Group, which aggregates a fixed, non-empty set of
// Analysers. Totals are plain sums; speeds are averaged weighted by each
// run's distance. Every aggregate is memoised on first success in a cache
// owned by the Group and is never invalidated, since a Group's composition
// cannot change after construction.
//
// Failures are returned as the sentinel errors in errors.go and propagate
// unchanged from the Analyser through the Group; the first failing run in
// collection order aborts an aggregate.
//
// An Analyser is safe for concurrent use. A Group is not: serialise access
// or build one Group per goroutine over the same runs.
package analysis

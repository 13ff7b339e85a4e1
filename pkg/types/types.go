package types

import "time"

// Unrecorded marks a Position or Speed that was not recorded for a sample.
const Unrecorded = -1.0

// Entry is one telemetry sample of a run.
type Entry struct {
	// Position is the distance along the route in meters, or Unrecorded.
	Position float64 `json:"position"`

	// Timestamp is the absolute time the sample was taken. Timestamps are
	// non-decreasing across a run in recording order.
	Timestamp time.Time `json:"timestamp"`

	// Speed is the instantaneous speed in meters per second, or Unrecorded.
	Speed float64 `json:"speed"`
}

// HasPosition reports whether the sample carries a recorded position.
func (e Entry) HasPosition() bool { return e.Position != Unrecorded }

// HasSpeed reports whether the sample carries a recorded speed.
func (e Entry) HasSpeed() bool { return e.Speed != Unrecorded }

// View hands out a read-only view of a run's entries. Implementations must
// return the same, unmodified slice for as long as the view is in use;
// callers must not write to it.
type View interface {
	Entries() []Entry
}

// Run is one recorded session: its samples in recording order.
// A Run may be empty.
type Run struct {
	// Name identifies the run, usually the path it was loaded from.
	Name string `json:"name"`

	// Date is the session start recorded in the source file. Zero if absent.
	Date time.Time `json:"date"`

	// Samples holds the entries in recording (= chronological) order.
	Samples []Entry `json:"samples"`
}

// Entries implements View.
func (r *Run) Entries() []Entry { return r.Samples }

// Sequence adapts a bare slice of entries to View.
type Sequence []Entry

// Entries implements View.
func (s Sequence) Entries() []Entry { return s }

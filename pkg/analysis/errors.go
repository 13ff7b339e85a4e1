package analysis

import "errors"

var (
	// ErrNoEntries is returned when the samples a computation needs are empty.
	ErrNoEntries = errors.New("analysis: no entries")

	// ErrZeroDistance is returned when a formula requires a non-zero distance.
	ErrZeroDistance = errors.New("analysis: zero distance")

	// ErrZeroDrivingTime is returned when a formula divides by a zero driving time.
	ErrZeroDrivingTime = errors.New("analysis: zero driving time")

	// ErrNoAnalysers is returned by NewGroup for an empty collection.
	ErrNoAnalysers = errors.New("analysis: no analysers")
)

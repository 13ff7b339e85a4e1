package analysis

import (
	"fmt"
	"time"

	"github.com/zusistats/zusistats/pkg/types"
)

// Analyser computes statistics for a single run. It only reads the wrapped
// view and holds no other state, so every call recomputes from the samples.
type Analyser struct {
	view types.View
}

// New returns an Analyser over view. The view must not change while the
// Analyser is in use.
func New(view types.View) *Analyser {
	return &Analyser{view: view}
}

// View returns the wrapped run.
func (a *Analyser) View() types.View {
	return a.view
}

// Distance returns the position difference between the last and the first
// sample with both position and speed recorded. The sign is preserved.
//
// Returns ErrNoEntries if no such sample exists.
func (a *Analyser) Distance() (float64, error) {
	valid := validPositionsAndSpeeds(a.view.Entries())
	if len(valid) == 0 {
		return 0, ErrNoEntries
	}
	return valid[len(valid)-1].Position - valid[0].Position, nil
}

// DrivingTime returns the time between the first and the last sample of the
// raw run, idle periods and unrecorded samples included.
//
// Returns ErrNoEntries if the run is empty.
func (a *Analyser) DrivingTime() (time.Duration, error) {
	entries := a.view.Entries()
	if len(entries) == 0 {
		return 0, ErrNoEntries
	}
	return entries[len(entries)-1].Timestamp.Sub(entries[0].Timestamp), nil
}

// AverageSpeed returns Distance divided by DrivingTime in meters per second.
//
// Returns ErrZeroDrivingTime if the driving time is zero.
func (a *Analyser) AverageSpeed() (float64, error) {
	distance, err := a.Distance()
	if err != nil {
		return 0, err
	}
	drivingTime, err := a.DrivingTime()
	if err != nil {
		return 0, err
	}
	if drivingTime == 0 {
		return 0, ErrZeroDrivingTime
	}
	return distance / drivingTime.Seconds(), nil
}

// PureDrivingTime returns the driving time without idle periods. Between
// each two consecutive valid samples the elapsed time is counted unless the
// speed is zero at both of them. A single valid sample yields zero.
//
// Returns ErrNoEntries if no sample has both position and speed recorded.
func (a *Analyser) PureDrivingTime() (time.Duration, error) {
	valid := validPositionsAndSpeeds(a.view.Entries())
	if len(valid) == 0 {
		return 0, ErrNoEntries
	}

	var total time.Duration
	for i := 0; i+1 < len(valid); i++ {
		current, next := valid[i], valid[i+1]
		if current.Speed > 0 || next.Speed > 0 {
			total += next.Timestamp.Sub(current.Timestamp)
		}
	}
	return total, nil
}

// PureAverageSpeed returns the average speed excluding idle periods, in
// meters per second, computed with the given algorithm.
//
// AlgorithmPureDrivingTime returns ErrZeroDrivingTime if the pure driving
// time is zero. AlgorithmWeightedLocalSpeeds returns ErrZeroDistance if the
// distance is zero and ErrNoEntries if fewer than two valid samples exist.
func (a *Analyser) PureAverageSpeed(alg Algorithm) (float64, error) {
	switch alg {
	case AlgorithmPureDrivingTime:
		return a.pureAverageSpeedByPureDrivingTime()
	case AlgorithmWeightedLocalSpeeds:
		return a.pureAverageSpeedByWeightedLocalSpeeds()
	default:
		return 0, fmt.Errorf("analysis: unsupported algorithm %v", alg)
	}
}

func (a *Analyser) pureAverageSpeedByPureDrivingTime() (float64, error) {
	distance, err := a.Distance()
	if err != nil {
		return 0, err
	}
	pure, err := a.PureDrivingTime()
	if err != nil {
		return 0, err
	}
	if pure == 0 {
		return 0, ErrZeroDrivingTime
	}
	return distance / pure.Seconds(), nil
}

// pureAverageSpeedByWeightedLocalSpeeds weights the mean speed of each pair
// of consecutive samples by the time between them. Idle pairs contribute
// zero speed, so dividing by the pure driving time leaves them out.
func (a *Analyser) pureAverageSpeedByWeightedLocalSpeeds() (float64, error) {
	distance, err := a.Distance()
	if err != nil {
		return 0, err
	}
	if distance == 0 {
		return 0, ErrZeroDistance
	}

	valid := validPositionsAndSpeeds(a.view.Entries())
	if len(valid) < 2 {
		return 0, ErrNoEntries
	}

	var weightedSum float64
	for i := 0; i+1 < len(valid); i++ {
		current, next := valid[i], valid[i+1]
		localSpeed := (current.Speed + next.Speed) / 2
		weightedSum += next.Timestamp.Sub(current.Timestamp).Seconds() * localSpeed
	}

	pure, err := a.PureDrivingTime()
	if err != nil {
		return 0, err
	}
	if pure == 0 {
		return 0, ErrZeroDrivingTime
	}
	return weightedSum / pure.Seconds(), nil
}

// Coverage describes how much of a run survives sentinel filtering.
type Coverage struct {
	// Samples is the number of raw samples.
	Samples int

	// WithPosition counts samples with a recorded position.
	WithPosition int

	// Valid counts samples with both position and speed recorded; these are
	// the samples Distance and the pure computations use.
	Valid int

	// ValidWindow is the time between the first and last valid sample.
	// It is shorter than DrivingTime when unrecorded samples lead or trail.
	ValidWindow time.Duration
}

// Coverage reports the sample counts behind the run's statistics.
func (a *Analyser) Coverage() Coverage {
	entries := a.view.Entries()
	valid := validPositionsAndSpeeds(entries)
	c := Coverage{
		Samples:      len(entries),
		WithPosition: len(validPositions(entries)),
		Valid:        len(valid),
	}
	if len(valid) > 0 {
		c.ValidWindow = valid[len(valid)-1].Timestamp.Sub(valid[0].Timestamp)
	}
	return c
}

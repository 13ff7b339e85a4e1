package analysis

import (
	"fmt"
	"time"

	"github.com/zusistats/zusistats/pkg/types"
)

// Group aggregates the statistics of a fixed, non-empty set of runs.
//
// Every accessor memoises its result on first success. Failures are not
// memoised and are recomputed on the next call. A Group is not safe for
// concurrent use.
type Group struct {
	analysers []*Analyser
	cache     *groupCache
}

// NewGroup returns a Group over analysers, in the given order.
// The slice is copied; the composition cannot change afterwards.
//
// Returns ErrNoAnalysers if analysers is empty.
func NewGroup(analysers []*Analyser) (*Group, error) {
	if len(analysers) == 0 {
		return nil, ErrNoAnalysers
	}
	return &Group{
		analysers: append([]*Analyser(nil), analysers...),
		cache:     newGroupCache(),
	}, nil
}

// GroupOf wraps each view in an Analyser and returns a Group over them.
func GroupOf(views ...types.View) (*Group, error) {
	analysers := make([]*Analyser, 0, len(views))
	for _, v := range views {
		analysers = append(analysers, New(v))
	}
	return NewGroup(analysers)
}

// Len returns the number of runs in the group. It is never zero.
func (g *Group) Len() int {
	return len(g.analysers)
}

// Analysers returns a copy of the group's analysers in order.
func (g *Group) Analysers() []*Analyser {
	return append([]*Analyser(nil), g.analysers...)
}

// TotalDistance returns the sum of the distances of all runs.
// See Analyser.Distance.
func (g *Group) TotalDistance() (float64, error) {
	if v, ok := g.cache.totalDistance.get(); ok {
		return v, nil
	}

	var total float64
	for _, a := range g.analysers {
		d, err := a.Distance()
		if err != nil {
			return 0, err
		}
		total += d
	}

	g.cache.totalDistance.put(total)
	return total, nil
}

// AverageDistance returns the mean distance per run.
func (g *Group) AverageDistance() (float64, error) {
	if v, ok := g.cache.averageDistance.get(); ok {
		return v, nil
	}

	total, err := g.TotalDistance()
	if err != nil {
		return 0, err
	}
	// Len is at least one, enforced by NewGroup.
	avg := total / float64(len(g.analysers))

	g.cache.averageDistance.put(avg)
	return avg, nil
}

// AverageSpeed returns the mean speed of all runs including idle times,
// weighted by each run's distance. See Analyser.AverageSpeed.
func (g *Group) AverageSpeed() (float64, error) {
	if v, ok := g.cache.averageSpeed.get(); ok {
		return v, nil
	}

	avg, err := g.distanceWeighted((*Analyser).AverageSpeed)
	if err != nil {
		return 0, err
	}

	g.cache.averageSpeed.put(avg)
	return avg, nil
}

// PureAverageSpeed returns the distance-weighted mean of every run's pure
// average speed under DefaultAlgorithm.
func (g *Group) PureAverageSpeed() (float64, error) {
	return g.PureAverageSpeedBy(DefaultAlgorithm)
}

// PureAverageSpeedBy is PureAverageSpeed with an explicit algorithm.
// Results are memoised per algorithm.
func (g *Group) PureAverageSpeedBy(alg Algorithm) (float64, error) {
	if !alg.valid() {
		return 0, fmt.Errorf("analysis: unsupported algorithm %v", alg)
	}
	s := g.cache.pureAverageSpeedSlot(alg)
	if v, ok := s.get(); ok {
		return v, nil
	}

	avg, err := g.distanceWeighted(func(a *Analyser) (float64, error) {
		return a.PureAverageSpeed(alg)
	})
	if err != nil {
		return 0, err
	}

	s.put(avg)
	return avg, nil
}

// TotalDrivingTime returns the sum of the driving times of all runs.
// See Analyser.DrivingTime.
func (g *Group) TotalDrivingTime() (time.Duration, error) {
	if v, ok := g.cache.totalDrivingTime.get(); ok {
		return v, nil
	}

	total, err := g.sumDurations((*Analyser).DrivingTime)
	if err != nil {
		return 0, err
	}

	g.cache.totalDrivingTime.put(total)
	return total, nil
}

// TotalPureDrivingTime returns the sum of the pure driving times of all
// runs. Each run is computed on its own samples, never across runs.
func (g *Group) TotalPureDrivingTime() (time.Duration, error) {
	if v, ok := g.cache.totalPureDrivingTime.get(); ok {
		return v, nil
	}

	total, err := g.sumDurations((*Analyser).PureDrivingTime)
	if err != nil {
		return 0, err
	}

	g.cache.totalPureDrivingTime.put(total)
	return total, nil
}

// distanceWeighted computes Σ(distance_i × speed_i) / TotalDistance.
// Per run, the distance is evaluated before the speed.
func (g *Group) distanceWeighted(speed func(*Analyser) (float64, error)) (float64, error) {
	var weightedSum float64
	for _, a := range g.analysers {
		d, err := a.Distance()
		if err != nil {
			return 0, err
		}
		v, err := speed(a)
		if err != nil {
			return 0, err
		}
		weightedSum += d * v
	}

	total, err := g.TotalDistance()
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, ErrZeroDistance
	}
	return weightedSum / total, nil
}

func (g *Group) sumDurations(metric func(*Analyser) (time.Duration, error)) (time.Duration, error) {
	var total time.Duration
	for _, a := range g.analysers {
		d, err := metric(a)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

package summary

import (
	"time"

	"github.com/zusistats/zusistats/pkg/analysis"
	"github.com/zusistats/zusistats/pkg/types"
)

// Metric names used as keys in the Errors maps.
const (
	MetricDistance         = "distance"
	MetricAverageDistance  = "average_distance"
	MetricDrivingTime      = "driving_time"
	MetricPureDrivingTime  = "pure_driving_time"
	MetricAverageSpeed     = "average_speed"
	MetricPureAverageSpeed = "pure_average_speed"
)

// Run statuses.
const (
	StatusOK      = "ok"      // every metric computed
	StatusPartial = "partial" // at least one metric failed
	StatusFailed  = "failed"  // no metric could be computed
)

// runMetrics is the number of metrics computed per run.
const runMetrics = 5

// RunStats holds the statistics of one run. A metric that failed keeps its
// zero value and has an entry in Errors.
type RunStats struct {
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`

	Samples      int      `json:"samples"`
	WithPosition int      `json:"samples_with_position"`
	ValidSamples int      `json:"valid_samples"`
	ValidWindow  Duration `json:"valid_window"`

	Distance         float64  `json:"distance_m"`
	DrivingTime      Duration `json:"driving_time"`
	PureDrivingTime  Duration `json:"pure_driving_time"`
	IdleTime         Duration `json:"idle_time"`
	AverageSpeed     float64  `json:"average_speed_mps"`
	PureAverageSpeed float64  `json:"pure_average_speed_mps"`

	Errors map[string]string `json:"errors,omitempty"`
}

// OK reports whether metric was computed successfully.
func (r RunStats) OK(metric string) bool {
	_, failed := r.Errors[metric]
	return !failed
}

// IdlePct returns the share of the driving time spent standing, in percent.
// It is zero when either driving time is unavailable or zero.
func (r RunStats) IdlePct() float64 {
	if !r.OK(MetricDrivingTime) || !r.OK(MetricPureDrivingTime) || r.DrivingTime <= 0 {
		return 0
	}
	return r.IdleTime.Seconds() / r.DrivingTime.Seconds() * 100
}

// GroupStats holds the aggregates over every run in a Summary.
type GroupStats struct {
	Runs int `json:"runs"`

	TotalDistance        float64  `json:"total_distance_m"`
	AverageDistance      float64  `json:"average_distance_m"`
	AverageSpeed         float64  `json:"average_speed_mps"`
	PureAverageSpeed     float64  `json:"pure_average_speed_mps"`
	TotalDrivingTime     Duration `json:"total_driving_time"`
	TotalPureDrivingTime Duration `json:"total_pure_driving_time"`

	// Error is set when no group could be formed; no aggregate is valid then.
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// OK reports whether the aggregate metric was computed successfully.
func (g GroupStats) OK(metric string) bool {
	if g.Error != "" {
		return false
	}
	_, failed := g.Errors[metric]
	return !failed
}

// Summary is the complete statistics snapshot for a set of runs.
type Summary struct {
	Algorithm string     `json:"algorithm"`
	Runs      []RunStats `json:"runs"`
	Group     GroupStats `json:"group"`
}

// Run returns the stats of the run called name.
func (s Summary) Run(name string) (RunStats, bool) {
	for _, r := range s.Runs {
		if r.Name == name {
			return r, true
		}
	}
	return RunStats{}, false
}

// KMH converts a speed from meters per second to kilometers per hour.
func KMH(mps float64) float64 { return mps * 3.6 }

// Summarize computes per-run statistics for runs, in order, and the group
// aggregates over all of them using alg for pure average speeds.
func Summarize(runs []*types.Run, alg analysis.Algorithm) Summary {
	s := Summary{
		Algorithm: alg.String(),
		Runs:      make([]RunStats, 0, len(runs)),
	}

	analysers := make([]*analysis.Analyser, 0, len(runs))
	for _, run := range runs {
		a := analysis.New(run)
		analysers = append(analysers, a)
		s.Runs = append(s.Runs, runStats(run, a, alg))
	}

	s.Group = groupStats(analysers, alg)
	return s
}

func runStats(run *types.Run, a *analysis.Analyser, alg analysis.Algorithm) RunStats {
	cov := a.Coverage()
	rs := RunStats{
		Name:         run.Name,
		Date:         run.Date,
		Samples:      cov.Samples,
		WithPosition: cov.WithPosition,
		ValidSamples: cov.Valid,
		ValidWindow:  Duration(cov.ValidWindow),
	}
	errs := make(map[string]string)

	record(errs, MetricDistance, &rs.Distance, a.Distance)
	recordDuration(errs, MetricDrivingTime, &rs.DrivingTime, a.DrivingTime)
	recordDuration(errs, MetricPureDrivingTime, &rs.PureDrivingTime, a.PureDrivingTime)
	record(errs, MetricAverageSpeed, &rs.AverageSpeed, a.AverageSpeed)
	record(errs, MetricPureAverageSpeed, &rs.PureAverageSpeed, func() (float64, error) {
		return a.PureAverageSpeed(alg)
	})

	_, drivingFailed := errs[MetricDrivingTime]
	_, pureFailed := errs[MetricPureDrivingTime]
	if !drivingFailed && !pureFailed {
		rs.IdleTime = rs.DrivingTime - rs.PureDrivingTime
	}

	switch len(errs) {
	case 0:
		rs.Status = StatusOK
	case runMetrics:
		rs.Status = StatusFailed
	default:
		rs.Status = StatusPartial
	}
	if len(errs) > 0 {
		rs.Errors = errs
	}
	return rs
}

func groupStats(analysers []*analysis.Analyser, alg analysis.Algorithm) GroupStats {
	g, err := analysis.NewGroup(analysers)
	if err != nil {
		return GroupStats{Error: err.Error()}
	}

	gs := GroupStats{Runs: g.Len()}
	errs := make(map[string]string)

	record(errs, MetricDistance, &gs.TotalDistance, g.TotalDistance)
	record(errs, MetricAverageDistance, &gs.AverageDistance, g.AverageDistance)
	record(errs, MetricAverageSpeed, &gs.AverageSpeed, g.AverageSpeed)
	record(errs, MetricPureAverageSpeed, &gs.PureAverageSpeed, func() (float64, error) {
		return g.PureAverageSpeedBy(alg)
	})
	recordDuration(errs, MetricDrivingTime, &gs.TotalDrivingTime, g.TotalDrivingTime)
	recordDuration(errs, MetricPureDrivingTime, &gs.TotalPureDrivingTime, g.TotalPureDrivingTime)

	if len(errs) > 0 {
		gs.Errors = errs
	}
	return gs
}

func record(errs map[string]string, metric string, dst *float64, fn func() (float64, error)) {
	v, err := fn()
	if err != nil {
		errs[metric] = err.Error()
		return
	}
	*dst = v
}

func recordDuration(errs map[string]string, metric string, dst *Duration, fn func() (time.Duration, error)) {
	v, err := fn()
	if err != nil {
		errs[metric] = err.Error()
		return
	}
	*dst = Duration(v)
}

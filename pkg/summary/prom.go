package summary

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

const namespace = "zusistats"

// Families returns s as Prometheus gauge families. Metrics that failed to
// compute are left out, and families with no metrics are dropped.
func Families(s Summary) []*dto.MetricFamily {
	runs := gaugeFamily("runs", "Number of runs in the summary.")
	runs.Metric = append(runs.Metric, gauge(float64(len(s.Runs))))

	samples := gaugeFamily("run_samples", "Raw samples recorded in the run.")
	distance := gaugeFamily("run_distance_meters", "Distance covered by the run.")
	driving := gaugeFamily("run_driving_time_seconds", "Elapsed time of the run.")
	pure := gaugeFamily("run_pure_driving_time_seconds", "Time the vehicle was moving.")
	speed := gaugeFamily("run_average_speed_mps", "Average speed including idle time.")
	pureSpeed := gaugeFamily("run_pure_average_speed_mps", "Average speed excluding idle time.")

	for _, r := range s.Runs {
		run := label("run", r.Name)
		samples.Metric = append(samples.Metric, gauge(float64(r.Samples), run))
		if r.OK(MetricDistance) {
			distance.Metric = append(distance.Metric, gauge(r.Distance, run))
		}
		if r.OK(MetricDrivingTime) {
			driving.Metric = append(driving.Metric, gauge(r.DrivingTime.Seconds(), run))
		}
		if r.OK(MetricPureDrivingTime) {
			pure.Metric = append(pure.Metric, gauge(r.PureDrivingTime.Seconds(), run))
		}
		if r.OK(MetricAverageSpeed) {
			speed.Metric = append(speed.Metric, gauge(r.AverageSpeed, run))
		}
		if r.OK(MetricPureAverageSpeed) {
			pureSpeed.Metric = append(pureSpeed.Metric,
				gauge(r.PureAverageSpeed, label("algorithm", s.Algorithm), run))
		}
	}

	g := s.Group
	groupGauge := func(name, help, metric string, v float64, labels ...*dto.LabelPair) *dto.MetricFamily {
		mf := gaugeFamily(name, help)
		if g.OK(metric) {
			mf.Metric = append(mf.Metric, gauge(v, labels...))
		}
		return mf
	}

	all := []*dto.MetricFamily{
		runs, samples, distance, driving, pure, speed, pureSpeed,
		groupGauge("group_total_distance_meters", "Sum of run distances.",
			MetricDistance, g.TotalDistance),
		groupGauge("group_average_distance_meters", "Mean distance per run.",
			MetricAverageDistance, g.AverageDistance),
		groupGauge("group_average_speed_mps", "Distance-weighted average speed.",
			MetricAverageSpeed, g.AverageSpeed),
		groupGauge("group_pure_average_speed_mps", "Distance-weighted pure average speed.",
			MetricPureAverageSpeed, g.PureAverageSpeed, label("algorithm", s.Algorithm)),
		groupGauge("group_total_driving_time_seconds", "Sum of run driving times.",
			MetricDrivingTime, g.TotalDrivingTime.Seconds()),
		groupGauge("group_total_pure_driving_time_seconds", "Sum of run pure driving times.",
			MetricPureDrivingTime, g.TotalPureDrivingTime.Seconds()),
	}

	out := all[:0]
	for _, mf := range all {
		if len(mf.Metric) > 0 {
			out = append(out, mf)
		}
	}
	return out
}

// WritePrometheus writes s to w in the Prometheus text exposition format.
func WritePrometheus(w io.Writer, s Summary) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range Families(s) {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("summary: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func gaugeFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(namespace + "_" + name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func gauge(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}

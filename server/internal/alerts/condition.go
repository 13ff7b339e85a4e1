package alerts

import (
	"strconv"
	"strings"

	"github.com/zusistats/zusistats/pkg/summary"
)

// evalCondition evaluates a rule condition string against the stats of one run.
//
// Supported expressions (field operator value):
//
//	distance_km < 5
//	driving_time_min > 120
//	pure_driving_time_min < 10
//	idle_pct > 40
//	average_speed_kmh < 30
//	pure_average_speed_kmh < 50
//	samples < 100
//	status == failed
//	status == partial
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed, the field is unknown
// or the run's value for the field could not be computed.
func evalCondition(cond string, rs summary.RunStats) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "status" {
		switch op {
		case "==":
			return rs.Status == rhs, 0
		case "!=":
			return rs.Status != rhs, 0
		}
		return false, 0
	}

	v, ok := numericField(field, rs)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the run stats. ok is false
// for unknown fields and for metrics that failed to compute.
func numericField(field string, rs summary.RunStats) (v float64, ok bool) {
	switch field {
	case "distance_km":
		return rs.Distance / 1000, rs.OK(summary.MetricDistance)
	case "driving_time_min":
		return rs.DrivingTime.Std().Minutes(), rs.OK(summary.MetricDrivingTime)
	case "pure_driving_time_min":
		return rs.PureDrivingTime.Std().Minutes(), rs.OK(summary.MetricPureDrivingTime)
	case "idle_pct":
		return rs.IdlePct(), rs.OK(summary.MetricDrivingTime) && rs.OK(summary.MetricPureDrivingTime)
	case "average_speed_kmh":
		return summary.KMH(rs.AverageSpeed), rs.OK(summary.MetricAverageSpeed)
	case "pure_average_speed_kmh":
		return summary.KMH(rs.PureAverageSpeed), rs.OK(summary.MetricPureAverageSpeed)
	case "samples":
		return float64(rs.Samples), true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}

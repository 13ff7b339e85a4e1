package analysis

import "fmt"

// Algorithm selects how PureAverageSpeed excludes idle periods.
// The zero value is AlgorithmPureDrivingTime.
type Algorithm int

const (
	// AlgorithmPureDrivingTime divides the distance by the pure driving time.
	AlgorithmPureDrivingTime Algorithm = iota

	// AlgorithmWeightedLocalSpeeds averages the mean speed of every pair of
	// consecutive samples, weighted by the time between them, over the pure
	// driving time.
	AlgorithmWeightedLocalSpeeds
)

// DefaultAlgorithm is used when the caller expresses no preference.
const DefaultAlgorithm = AlgorithmPureDrivingTime

var algorithmNames = map[Algorithm]string{
	AlgorithmPureDrivingTime:     "pure_driving_time",
	AlgorithmWeightedLocalSpeeds: "weighted_local_speeds",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

func (a Algorithm) valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

// ParseAlgorithm maps a configuration name to an Algorithm.
// The empty string selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return DefaultAlgorithm, nil
	}
	for a, n := range algorithmNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("analysis: unknown algorithm %q: want pure_driving_time|weighted_local_speeds", name)
}

package analysis

import (
	"math"
	"time"

	"github.com/zusistats/zusistats/pkg/types"
)

// baseTime is a fixed reference point so all test timings are deterministic.
var baseTime = time.Date(2019, 1, 1, 23, 18, 0, 0, time.UTC)

// at returns baseTime advanced by sec seconds.
func at(sec int) time.Time {
	return baseTime.Add(time.Duration(sec) * time.Second)
}

func entry(pos float64, ts time.Time, speed float64) types.Entry {
	return types.Entry{Position: pos, Timestamp: ts, Speed: speed}
}

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// idlingRun is a run with speeds [46,4,5,0,0,8] at positions
// [5,55,145,165,165,245], samples 2, 20, 8, 62 and 20 seconds apart.
func idlingRun() types.Sequence {
	return types.Sequence{
		entry(5, at(4), 46),
		entry(55, at(6), 4),
		entry(145, at(26), 5),
		entry(165, at(34), 0),
		entry(165, at(96), 0),
		entry(245, at(116), 8),
	}
}

package analysis

import "github.com/zusistats/zusistats/pkg/types"

// validPositions returns the entries with a recorded position, in order.
func validPositions(entries []types.Entry) []types.Entry {
	return filter(entries, func(e types.Entry) bool {
		return e.HasPosition()
	})
}

// validPositionsAndSpeeds returns the entries with both a recorded position
// and a recorded speed, in order. Distance and both pure-speed computations
// share this subsequence so their windows agree.
func validPositionsAndSpeeds(entries []types.Entry) []types.Entry {
	return filter(entries, func(e types.Entry) bool {
		return e.HasPosition() && e.HasSpeed()
	})
}

func filter(entries []types.Entry, keep func(types.Entry) bool) []types.Entry {
	out := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

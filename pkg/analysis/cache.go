package analysis

import "time"

// slot holds one optionally memoised value.
type slot[T any] struct {
	value T
	set   bool
}

func (s *slot[T]) get() (T, bool) { return s.value, s.set }

func (s *slot[T]) put(v T) {
	s.value = v
	s.set = true
}

// groupCache memoises the aggregates of one Group. Slots are only written
// after a successful computation and never cleared.
type groupCache struct {
	totalDistance        slot[float64]
	averageDistance      slot[float64]
	averageSpeed         slot[float64]
	pureAverageSpeed     map[Algorithm]*slot[float64]
	totalDrivingTime     slot[time.Duration]
	totalPureDrivingTime slot[time.Duration]
}

func newGroupCache() *groupCache {
	return &groupCache{pureAverageSpeed: make(map[Algorithm]*slot[float64], len(algorithmNames))}
}

func (c *groupCache) pureAverageSpeedSlot(alg Algorithm) *slot[float64] {
	s, ok := c.pureAverageSpeed[alg]
	if !ok {
		s = &slot[float64]{}
		c.pureAverageSpeed[alg] = s
	}
	return s
}

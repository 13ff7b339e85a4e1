package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/zusistats/zusistats/pkg/types"
)

func clock(h, m int) time.Time {
	return time.Date(2019, 1, 1, h, m, 0, 0, time.UTC)
}

// twoRuns returns two runs that each end with one idle-to-idle interval.
func twoRuns() (types.Sequence, types.Sequence) {
	run1 := types.Sequence{
		entry(0, clock(23, 18), 8),
		entry(3, clock(23, 28), 8),
		entry(4, clock(23, 38), 0),
		entry(4, clock(23, 48), 0),
	}
	run2 := types.Sequence{
		entry(0, clock(23, 18), 4),
		entry(9, clock(23, 33), 4),
		entry(16, clock(23, 43), 0),
		entry(16, clock(23, 53), 0),
	}
	return run1, run2
}

func mustGroup(t *testing.T, views ...types.View) *Group {
	t.Helper()
	g, err := GroupOf(views...)
	if err != nil {
		t.Fatalf("GroupOf: %v", err)
	}
	return g
}

func TestNewGroup_Empty(t *testing.T) {
	g, err := NewGroup(nil)
	if !errors.Is(err, ErrNoAnalysers) {
		t.Errorf("NewGroup(nil) error = %v, want ErrNoAnalysers", err)
	}
	if g != nil {
		t.Error("NewGroup(nil) returned a group")
	}
	if _, err := GroupOf(); !errors.Is(err, ErrNoAnalysers) {
		t.Errorf("GroupOf() error = %v, want ErrNoAnalysers", err)
	}
}

func TestNewGroup_SharedAnalyser(t *testing.T) {
	a := New(types.Sequence{})
	g, err := NewGroup([]*Analyser{a, a})
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestNewGroup_CopiesInput(t *testing.T) {
	run1, run2 := twoRuns()
	in := []*Analyser{New(run1), New(run2)}
	g, err := NewGroup(in)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	in[0] = New(types.Sequence{})

	if _, err := g.TotalDistance(); err != nil {
		t.Errorf("TotalDistance() after caller mutated input: %v", err)
	}
	out := g.Analysers()
	out[1] = nil
	if g.Analysers()[1] == nil {
		t.Error("Analysers() exposes the internal slice")
	}
}

func TestGroup_Aggregates(t *testing.T) {
	run1, run2 := twoRuns()
	g := mustGroup(t, run1, run2)

	// run1: 4 m in 30 min, 20 min moving; run2: 16 m in 35 min, 25 min moving.
	wantAvgSpeed := (4*(4.0/1800) + 16*(16.0/2100)) / 20
	wantPureSpeed := (4*(4.0/1200) + 16*(16.0/1500)) / 20

	for i := 0; i < 2; i++ {
		if got, err := g.TotalDistance(); err != nil || got != 20 {
			t.Errorf("pass %d: TotalDistance() = %v, %v; want 20", i, got, err)
		}
		if got, err := g.AverageDistance(); err != nil || got != 10 {
			t.Errorf("pass %d: AverageDistance() = %v, %v; want 10", i, got, err)
		}
		if got, err := g.AverageSpeed(); err != nil || !almostEqual(got, wantAvgSpeed, 1e-12) {
			t.Errorf("pass %d: AverageSpeed() = %v, %v; want %v", i, got, err, wantAvgSpeed)
		}
		if got, err := g.PureAverageSpeed(); err != nil || !almostEqual(got, wantPureSpeed, 1e-12) {
			t.Errorf("pass %d: PureAverageSpeed() = %v, %v; want %v", i, got, err, wantPureSpeed)
		}
		if got, err := g.TotalDrivingTime(); err != nil || got != 65*time.Minute {
			t.Errorf("pass %d: TotalDrivingTime() = %v, %v; want 65m", i, got, err)
		}
		if got, err := g.TotalPureDrivingTime(); err != nil || got != 45*time.Minute {
			t.Errorf("pass %d: TotalPureDrivingTime() = %v, %v; want 45m", i, got, err)
		}
	}
	if !almostEqual(wantAvgSpeed, 0.0065396824, 1e-9) {
		t.Errorf("fixture average speed drifted: %v", wantAvgSpeed)
	}
}

func TestGroup_TotalPureDrivingTime_SumsPerRun(t *testing.T) {
	run1, run2 := twoRuns()
	g := mustGroup(t, run1, run2)

	var want time.Duration
	for _, a := range g.Analysers() {
		d, err := a.PureDrivingTime()
		if err != nil {
			t.Fatalf("PureDrivingTime: %v", err)
		}
		want += d
	}

	// Treating both runs as one sequence would count the jump between them.
	merged := New(append(append(types.Sequence{}, run1...), run2...))
	mergedPure, err := merged.PureDrivingTime()
	if err != nil {
		t.Fatalf("merged PureDrivingTime: %v", err)
	}

	got, err := g.TotalPureDrivingTime()
	if err != nil {
		t.Fatalf("TotalPureDrivingTime: %v", err)
	}
	if got != want {
		t.Errorf("TotalPureDrivingTime() = %v, want %v", got, want)
	}
	if got == mergedPure {
		t.Errorf("TotalPureDrivingTime() = %v equals the merged-sequence value", got)
	}
}

func TestGroup_TotalDistance(t *testing.T) {
	g := mustGroup(t,
		types.Sequence{entry(2.33, at(0), 0), entry(22.43, at(0), 0)},
		types.Sequence{entry(7.33, at(0), 0), entry(72.43, at(0), 0)},
	)
	got, err := g.TotalDistance()
	if err != nil {
		t.Fatalf("TotalDistance() error = %v", err)
	}
	if !almostEqual(got, 85.2, 1e-9) {
		t.Errorf("TotalDistance() = %v, want 85.2", got)
	}

	// Property: total equals the sum of the members and the average is total / N.
	var sum float64
	for _, a := range g.Analysers() {
		d, _ := a.Distance()
		sum += d
	}
	if got != sum {
		t.Errorf("TotalDistance() = %v, Σ Distance = %v", got, sum)
	}
	avg, err := g.AverageDistance()
	if err != nil || avg != got/2 {
		t.Errorf("AverageDistance() = %v, %v; want %v", avg, err, got/2)
	}
}

func TestGroup_ErrorPropagates(t *testing.T) {
	g := mustGroup(t,
		types.Sequence{entry(7.33, at(0), 0), entry(72.43, at(10), 0)},
		types.Sequence{},
	)

	if _, err := g.TotalDistance(); !errors.Is(err, ErrNoEntries) {
		t.Errorf("TotalDistance() error = %v, want ErrNoEntries", err)
	}
	if _, err := g.AverageDistance(); !errors.Is(err, ErrNoEntries) {
		t.Errorf("AverageDistance() error = %v, want ErrNoEntries", err)
	}
	if _, err := g.AverageSpeed(); !errors.Is(err, ErrNoEntries) {
		t.Errorf("AverageSpeed() error = %v, want ErrNoEntries", err)
	}
	if _, err := g.TotalDrivingTime(); !errors.Is(err, ErrNoEntries) {
		t.Errorf("TotalDrivingTime() error = %v, want ErrNoEntries", err)
	}
	if _, err := g.TotalPureDrivingTime(); !errors.Is(err, ErrNoEntries) {
		t.Errorf("TotalPureDrivingTime() error = %v, want ErrNoEntries", err)
	}
	if _, ok := g.cache.totalDistance.get(); ok {
		t.Error("failed TotalDistance was cached")
	}
}

func TestGroup_FirstErrorWins(t *testing.T) {
	g := mustGroup(t,
		types.Sequence{entry(0, at(0), 5), entry(10, at(0), 5)}, // zero driving time
		types.Sequence{},                                       // no entries
	)
	if _, err := g.AverageSpeed(); !errors.Is(err, ErrZeroDrivingTime) {
		t.Errorf("AverageSpeed() error = %v, want ErrZeroDrivingTime from the first run", err)
	}
}

func TestGroup_ZeroTotalDistance(t *testing.T) {
	g := mustGroup(t,
		types.Sequence{entry(5, at(0), 0), entry(5, at(60), 0)},
	)
	if _, err := g.AverageSpeed(); !errors.Is(err, ErrZeroDistance) {
		t.Errorf("AverageSpeed() error = %v, want ErrZeroDistance", err)
	}
}

func TestGroup_PureAverageSpeedBy(t *testing.T) {
	g := mustGroup(t, idlingRun(), types.Sequence{
		entry(0, at(0), 10),
		entry(100, at(10), 10),
		entry(100, at(20), 0),
		entry(100, at(30), 0),
	})

	// (240×4.8 + 100×5) / 340 and (240×4.8 + 100×7.5) / 340
	byTime, err := g.PureAverageSpeedBy(AlgorithmPureDrivingTime)
	if err != nil || !almostEqual(byTime, (240*4.8+100*5)/340, 1e-12) {
		t.Errorf("PureAverageSpeedBy(pure_driving_time) = %v, %v", byTime, err)
	}
	weighted, err := g.PureAverageSpeedBy(AlgorithmWeightedLocalSpeeds)
	if err != nil || !almostEqual(weighted, (240*4.8+100*7.5)/340, 1e-12) {
		t.Errorf("PureAverageSpeedBy(weighted_local_speeds) = %v, %v", weighted, err)
	}
	if def, _ := g.PureAverageSpeed(); def != byTime {
		t.Errorf("PureAverageSpeed() = %v, want default algorithm value %v", def, byTime)
	}
	if _, err := g.PureAverageSpeedBy(Algorithm(7)); err == nil {
		t.Error("PureAverageSpeedBy(7): expected error")
	}
}

// --- cache behaviour ---

func TestGroup_CachesFirstSuccess(t *testing.T) {
	run := types.Sequence{entry(0, at(0), 5), entry(100, at(20), 5)}
	g := mustGroup(t, run)

	first, err := g.TotalDistance()
	if err != nil {
		t.Fatalf("TotalDistance: %v", err)
	}

	// The contract forbids changing a run under an analyser; doing it here
	// shows the second call is served from the cache.
	run[1].Position = 1000
	second, err := g.TotalDistance()
	if err != nil {
		t.Fatalf("TotalDistance: %v", err)
	}
	if second != first {
		t.Errorf("TotalDistance() = %v after cache fill, want cached %v", second, first)
	}
}

func TestGroup_AccessorsDoNotDisturbSiblings(t *testing.T) {
	run1, run2 := twoRuns()
	g := mustGroup(t, run1, run2)

	speed, _ := g.AverageSpeed()
	total, _ := g.TotalDistance()

	if _, ok := g.cache.averageDistance.get(); ok {
		t.Error("averageDistance cached before it was requested")
	}

	_, _ = g.AverageDistance()
	_, _ = g.PureAverageSpeed()
	_, _ = g.TotalDrivingTime()
	_, _ = g.TotalPureDrivingTime()

	if v, _ := g.cache.averageSpeed.get(); v != speed {
		t.Errorf("cached averageSpeed changed: %v → %v", speed, v)
	}
	if v, _ := g.cache.totalDistance.get(); v != total {
		t.Errorf("cached totalDistance changed: %v → %v", total, v)
	}
	if _, ok := g.cache.pureAverageSpeedSlot(AlgorithmWeightedLocalSpeeds).get(); ok {
		t.Error("weighted pure speed cached without being requested")
	}
}

func TestGroup_AverageDistanceReusesTotal(t *testing.T) {
	run := types.Sequence{entry(0, at(0), 5), entry(50, at(20), 5)}
	g := mustGroup(t, run, run)

	if _, err := g.TotalDistance(); err != nil {
		t.Fatalf("TotalDistance: %v", err)
	}
	run[1].Position = 999 // ignored: total is already cached

	avg, err := g.AverageDistance()
	if err != nil {
		t.Fatalf("AverageDistance: %v", err)
	}
	if avg != 50 {
		t.Errorf("AverageDistance() = %v, want 50 from cached total", avg)
	}
}

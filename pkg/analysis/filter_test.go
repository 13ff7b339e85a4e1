package analysis

import (
	"testing"

	"github.com/zusistats/zusistats/pkg/types"
)

func TestValidPositionsAndSpeeds(t *testing.T) {
	entries := []types.Entry{
		entry(types.Unrecorded, at(0), 0),
		entry(2.33, at(0), 0),
		entry(types.Unrecorded, at(0), types.Unrecorded),
		entry(22.43, at(0), 0),
		entry(1, at(0), types.Unrecorded),
	}

	got := validPositionsAndSpeeds(entries)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != entries[1] || got[1] != entries[3] {
		t.Errorf("filtered = %v, want entries 1 and 3", got)
	}
}

func TestValidPositions_KeepsUnrecordedSpeed(t *testing.T) {
	entries := []types.Entry{
		entry(types.Unrecorded, at(0), 3),
		entry(1, at(1), types.Unrecorded),
		entry(2, at(2), 4),
	}
	if got := len(validPositions(entries)); got != 2 {
		t.Errorf("len = %d, want 2", got)
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	entries := []types.Entry{
		entry(types.Unrecorded, at(0), 0),
		entry(1, at(1), 1),
	}
	_ = validPositionsAndSpeeds(entries)
	if entries[0].Position != types.Unrecorded || entries[1].Position != 1 {
		t.Errorf("input modified: %v", entries)
	}
}

func TestFilter_Empty(t *testing.T) {
	if got := validPositionsAndSpeeds(nil); len(got) != 0 {
		t.Errorf("filter(nil) len = %d, want 0", len(got))
	}
}

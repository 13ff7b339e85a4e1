package resultfile

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/tormoder/fit"

	"github.com/zusistats/zusistats/pkg/types"
)

// FITDecoder decodes FIT activity files. Each record message with a valid
// timestamp becomes one entry; invalid distance or speed fields become
// types.Unrecorded. Enhanced speed is preferred over speed.
type FITDecoder struct{}

func (FITDecoder) Decode(r io.Reader, name string) (*types.Run, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("resultfile: decode %q: %w", name, err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("resultfile: decode %q: activity expected: %w", name, err)
	}

	run := &types.Run{Name: name, Samples: recordEntries(activity.Records)}
	if len(activity.Sessions) > 0 {
		run.Date = validTime(activity.Sessions[0].StartTime)
	}
	if run.Date.IsZero() && len(run.Samples) > 0 {
		run.Date = run.Samples[0].Timestamp
	}
	return run, nil
}

func recordEntries(records []*fit.RecordMsg) []types.Entry {
	entries := make([]types.Entry, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		ts := validTime(rec.Timestamp)
		if ts.IsZero() {
			continue
		}
		entries = append(entries, types.Entry{
			Position:  measurement(rec.GetDistanceScaled()),
			Timestamp: ts,
			Speed:     recordSpeed(rec),
		})
	}
	return entries
}

func recordSpeed(rec *fit.RecordMsg) float64 {
	if v := rec.GetEnhancedSpeedScaled(); finiteNonNegative(v) {
		return v
	}
	return measurement(rec.GetSpeedScaled())
}

func measurement(v float64) float64 {
	if !finiteNonNegative(v) {
		return types.Unrecorded
	}
	return v
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validTime(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

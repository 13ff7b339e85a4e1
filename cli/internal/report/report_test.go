package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/zusistats/zusistats/cli/internal/config"
	"github.com/zusistats/zusistats/pkg/analysis"
	"github.com/zusistats/zusistats/pkg/summary"
	"github.com/zusistats/zusistats/pkg/types"
)

var baseTime = time.Date(2019, 1, 1, 23, 18, 0, 0, time.UTC)

func run(name string) *types.Run {
	at := func(sec int) time.Time { return baseTime.Add(time.Duration(sec) * time.Second) }
	return &types.Run{
		Name: "results/" + name,
		Date: baseTime,
		Samples: []types.Entry{
			{Position: 0, Timestamp: at(0), Speed: 10},
			{Position: 100, Timestamp: at(10), Speed: 10},
			{Position: 150, Timestamp: at(20), Speed: 0},
			{Position: 150, Timestamp: at(30), Speed: 0},
		},
	}
}

func TestWriteText(t *testing.T) {
	s := summary.Summarize([]*types.Run{run("a.xml"), run("b.xml")}, analysis.DefaultAlgorithm)

	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Analysis results:",
		"total distance: 300 m",
		"average distance: 150 m",
		"average speed: 5 m/s = 18 km/h",
		"pure average speed: 7.5 m/s = 27 km/h",
		"total driving time: 1m0s",
		"total pure driving time: 40s",
		"a.xml",
		"b.xml",
		"2019-01-01 23:18",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteText_Errors(t *testing.T) {
	s := summary.Summarize([]*types.Run{run("a.xml"), {Name: "empty.xml"}}, analysis.DefaultAlgorithm)

	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "total distance: error: analysis: no entries") {
		t.Errorf("output missing group error:\n%s", out)
	}
	if !strings.Contains(out, "failed") {
		t.Errorf("output missing failed run status:\n%s", out)
	}
}

func TestWriteText_NoRuns(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, summary.Summarize(nil, analysis.DefaultAlgorithm)); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(buf.String(), "no group statistics") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	WriteHeader(&buf, "*.xml", []string{"a.xml"}, false)
	if buf.String() != "Analyse files by pattern: *.xml\n" {
		t.Errorf("header = %q", buf.String())
	}

	buf.Reset()
	WriteHeader(&buf, "*.xml", []string{"a.xml", "b.xml"}, true)
	if !strings.Contains(buf.String(), "\"b.xml\"\n") {
		t.Errorf("debug header missing file list: %q", buf.String())
	}
}

func TestWrite_Formats(t *testing.T) {
	s := summary.Summarize([]*types.Run{run("a.xml")}, analysis.DefaultAlgorithm)

	var js bytes.Buffer
	if err := Write(&js, config.FormatJSON, s); err != nil {
		t.Fatalf("Write(json): %v", err)
	}
	var decoded summary.Summary
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.Group.TotalDistance != 150 || decoded.Group.TotalDrivingTime.Std() != 30*time.Second {
		t.Errorf("decoded group = %+v", decoded.Group)
	}

	var prom bytes.Buffer
	if err := Write(&prom, config.FormatPrometheus, s); err != nil {
		t.Fatalf("Write(prometheus): %v", err)
	}
	if !strings.Contains(prom.String(), "zusistats_group_total_distance_meters 150") {
		t.Errorf("prometheus output:\n%s", prom.String())
	}

	if err := Write(&bytes.Buffer{}, "csv", s); err == nil {
		t.Error("Write(csv): expected error")
	}
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, []*types.Run{run("a.xml"), {Name: "empty.xml"}}); err != nil {
		t.Fatalf("RenderChart: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1280 || b.Dy() != 640 {
		t.Errorf("chart size = %dx%d, want 1280x640", b.Dx(), b.Dy())
	}
}

func TestRenderChart_NoData(t *testing.T) {
	single := &types.Run{Samples: []types.Entry{{Position: 1, Timestamp: baseTime, Speed: 1}}}
	err := RenderChart(&bytes.Buffer{}, []*types.Run{single})
	if !errors.Is(err, ErrNoChartData) {
		t.Errorf("RenderChart() error = %v, want ErrNoChartData", err)
	}
}

func TestSpeedProfile(t *testing.T) {
	xs, ys := speedProfile([]types.Entry{
		{Position: 1500, Speed: 10},
		{Position: types.Unrecorded, Speed: 5},
		{Position: 2000, Speed: types.Unrecorded},
		{Position: 2500, Speed: 20},
	})
	if len(xs) != 2 || xs[0] != 1.5 || xs[1] != 2.5 {
		t.Errorf("xs = %v, want [1.5 2.5]", xs)
	}
	if len(ys) != 2 || ys[0] != 36 || ys[1] != 72 {
		t.Errorf("ys = %v, want [36 72]", ys)
	}
}

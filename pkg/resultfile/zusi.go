package resultfile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/zusistats/zusistats/pkg/types"
)

// ErrNoResult is returned when a Zusi document has no <result> element.
var ErrNoResult = errors.New("resultfile: no result element")

// timeLayouts are tried in order for Datum and FahrtZeit attributes.
// Zone-less values are read as UTC.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

type zusiDocument struct {
	XMLName xml.Name     `xml:"Zusi"`
	Results []zusiResult `xml:"result"`
}

type zusiResult struct {
	Datum   string      `xml:"Datum,attr"`
	Entries []zusiEntry `xml:"FahrtEintrag"`
}

type zusiEntry struct {
	Weg   string `xml:"FahrtWeg,attr"`
	Zeit  string `xml:"FahrtZeit,attr"`
	Speed string `xml:"FahrtSpeed,attr"`
}

// ZusiDecoder decodes Zusi result XML. Only the first <result> element is
// used. A missing FahrtWeg or FahrtSpeed attribute becomes types.Unrecorded;
// FahrtZeit is required.
type ZusiDecoder struct{}

func (ZusiDecoder) Decode(r io.Reader, name string) (*types.Run, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc zusiDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("resultfile: decode %q: %w", name, err)
	}
	if len(doc.Results) == 0 {
		return nil, fmt.Errorf("resultfile: decode %q: %w", name, ErrNoResult)
	}

	res := doc.Results[0]
	run := &types.Run{Name: name, Samples: make([]types.Entry, 0, len(res.Entries))}

	if res.Datum != "" {
		d, err := parseTime(res.Datum)
		if err != nil {
			return nil, fmt.Errorf("resultfile: decode %q: Datum: %w", name, err)
		}
		run.Date = d
	}

	for i, e := range res.Entries {
		entry, err := e.toEntry()
		if err != nil {
			return nil, fmt.Errorf("resultfile: decode %q: FahrtEintrag %d: %w", name, i, err)
		}
		run.Samples = append(run.Samples, entry)
	}
	return run, nil
}

func (e zusiEntry) toEntry() (types.Entry, error) {
	ts, err := parseTime(e.Zeit)
	if err != nil {
		return types.Entry{}, fmt.Errorf("FahrtZeit: %w", err)
	}
	pos, err := parseMeasurement(e.Weg)
	if err != nil {
		return types.Entry{}, fmt.Errorf("FahrtWeg: %w", err)
	}
	speed, err := parseMeasurement(e.Speed)
	if err != nil {
		return types.Entry{}, fmt.Errorf("FahrtSpeed: %w", err)
	}
	return types.Entry{Position: pos, Timestamp: ts, Speed: speed}, nil
}

func parseMeasurement(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Unrecorded, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return types.Unrecorded, nil
	}
	return v, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

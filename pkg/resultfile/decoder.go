package resultfile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zusistats/zusistats/pkg/types"
)

// ErrUnsupportedFormat is returned by ForPath for unknown file extensions.
var ErrUnsupportedFormat = errors.New("resultfile: unsupported format")

// Decoder reads one run from r. name identifies the source in errors and
// becomes the run's Name.
type Decoder interface {
	Decode(r io.Reader, name string) (*types.Run, error)
}

// ForPath returns the decoder for path's extension.
func ForPath(path string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return ZusiDecoder{}, nil
	case ".fit":
		return FITDecoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Load opens and decodes the run stored at path.
func Load(path string) (*types.Run, error) {
	dec, err := ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("resultfile: open: %w", err)
	}
	defer f.Close()

	run, err := dec.Decode(f, path)
	if err != nil {
		return nil, err
	}
	run.Name = path
	return run, nil
}

// LoadAll loads every path in order. Files that fail to load are skipped;
// their errors are returned alongside the runs that did load.
func LoadAll(paths []string) ([]*types.Run, []error) {
	runs := make([]*types.Run, 0, len(paths))
	var errs []error
	for _, p := range paths {
		run, err := Load(p)
		if err != nil {
			slog.Warn("resultfile: skipping file", "path", p, "err", err)
			errs = append(errs, err)
			continue
		}
		slog.Debug("resultfile: loaded", "path", p, "samples", len(run.Samples))
		runs = append(runs, run)
	}
	return runs, errs
}

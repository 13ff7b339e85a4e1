package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zusistats/zusistats/pkg/resultfile"
	"github.com/zusistats/zusistats/server/internal/alerts"
	"github.com/zusistats/zusistats/server/internal/store"
)

// Ingester keeps the store in sync with the result files matching a glob
// pattern and re-evaluates alert rules for every run it (re)loads.
type Ingester struct {
	store    *store.Store
	alerts   *alerts.Engine // may be nil
	pattern  string
	debounce time.Duration
	onChange func()
}

// New creates an Ingester that loads files matching pattern into st.
// al may be nil when no alert rules are configured.
func New(st *store.Store, al *alerts.Engine, pattern string, debounce time.Duration) *Ingester {
	return &Ingester{
		store:    st,
		alerts:   al,
		pattern:  pattern,
		debounce: debounce,
		onChange: func() {},
	}
}

// OnChange registers fn to be called after the store was modified.
func (in *Ingester) OnChange(fn func()) {
	in.onChange = fn
}

// Scan loads every file matching the pattern and removes runs whose file no
// longer matches. Files that fail to decode are logged and skipped. It
// returns the number of runs loaded.
func (in *Ingester) Scan() (int, error) {
	paths, err := resultfile.Discover(in.pattern)
	if err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}

	seen := make(map[string]bool, len(paths))
	loaded := 0
	for _, p := range paths {
		seen[p] = true
		if in.load(p) {
			loaded++
		}
	}
	for _, e := range in.store.List() {
		if !seen[e.Run.Name] {
			in.remove(e.Run.Name)
		}
	}

	in.evaluateAll()
	in.onChange()
	slog.Info("ingest: scan complete", "pattern", in.pattern, "files", len(paths), "loaded", loaded)
	return loaded, nil
}

// Run scans once, then watches the pattern's directory and applies every
// change until ctx is cancelled.
func (in *Ingester) Run(ctx context.Context) error {
	if _, err := in.Scan(); err != nil {
		return err
	}
	return resultfile.Watch(ctx, in.pattern, in.debounce, in.apply)
}

func (in *Ingester) apply(ev resultfile.Event) {
	switch ev.Kind {
	case resultfile.EventRemoved:
		if !in.remove(ev.Path) {
			return
		}
	default:
		if !in.load(ev.Path) {
			return
		}
		// Only this run's own statistics changed.
		if rs, ok := in.store.Summary().Run(ev.Path); ok && in.alerts != nil {
			in.alerts.Evaluate(rs)
		}
	}
	in.onChange()
}

// load decodes path into the store. A file that fails to decode keeps its
// previously loaded run, if any.
func (in *Ingester) load(path string) bool {
	run, err := resultfile.Load(path)
	if err != nil {
		slog.Warn("ingest: skipping file", "path", path, "err", err)
		return false
	}
	in.store.Put(run)
	slog.Debug("ingest: run stored", "name", run.Name, "samples", len(run.Samples))
	return true
}

func (in *Ingester) remove(name string) bool {
	if !in.store.Delete(name) {
		return false
	}
	if in.alerts != nil {
		in.alerts.Forget(name)
	}
	slog.Info("ingest: run removed", "name", name)
	return true
}

func (in *Ingester) evaluateAll() {
	if in.alerts == nil {
		return
	}
	for _, rs := range in.store.Summary().Runs {
		in.alerts.Evaluate(rs)
	}
}

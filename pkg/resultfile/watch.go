package resultfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind describes what happened to a watched file.
type EventKind int

const (
	// EventUpdated means the file was created or written.
	EventUpdated EventKind = iota
	// EventRemoved means the file was removed or renamed away.
	EventRemoved
)

func (k EventKind) String() string {
	if k == EventRemoved {
		return "removed"
	}
	return "updated"
}

// Event is delivered to the Watch callback once per changed file.
type Event struct {
	Path string
	Kind EventKind
}

// Watch monitors the directory of pattern and calls onChange for every file
// matching pattern that changes. Bursts of events within debounce are
// coalesced into one callback per path, carrying the last event kind;
// callbacks are delivered in path order. It runs until ctx is cancelled.
func Watch(ctx context.Context, pattern string, debounce time.Duration, onChange func(Event)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(pattern)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	slog.Info("resultfile: watching for changes", "dir", dir, "pattern", pattern)

	pending := make(map[string]EventKind)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			onChange(Event{Path: p, Kind: pending[p]})
		}
		clear(pending)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !Match(pattern, event.Name) {
				continue
			}
			kind, relevant := eventKind(event)
			if !relevant {
				continue
			}
			slog.Debug("resultfile: change detected", "path", event.Name, "kind", kind)
			pending[filepath.Clean(event.Name)] = kind
			if debounce <= 0 {
				flush()
				continue
			}
			resetTimer(timer, debounce)

		case <-timer.C:
			flush()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("resultfile: watcher error", "err", err)
		}
	}
}

// resetTimer restarts t for d, discarding a tick that fired but was not
// received yet.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func eventKind(e fsnotify.Event) (EventKind, bool) {
	switch {
	case e.Has(fsnotify.Remove), e.Has(fsnotify.Rename):
		return EventRemoved, true
	case e.Has(fsnotify.Create), e.Has(fsnotify.Write):
		return EventUpdated, true
	default:
		return 0, false
	}
}

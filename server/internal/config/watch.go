package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path for changes and calls onChange with the newly loaded
// Config each time the file is written. It runs until ctx is cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged, onChange is
// not called and the previous config stays active.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("server config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, which surfaces as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("server config: reload failed, keeping previous config",
					"path", path, "err", err)
				continue
			}

			slog.Info("server config: reloaded", "path", path, "rules", len(cfg.Server.Alerts.Rules))
			onChange(cfg)

			// The inode changes on atomic saves.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("server config: watcher error", "err", err)
		}
	}
}

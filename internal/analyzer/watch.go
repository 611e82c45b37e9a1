package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after a change before re-analyzing.
const DefaultDebounce = 200 * time.Millisecond

// WatchFunc receives the result of every run. Errors from Analyze are passed
// through; returning a non-nil error stops the watch.
type WatchFunc func(a *Analysis, err error) error

// Watch runs Analyze once, then again after every debounced manifest change
// below target, until ctx is cancelled. Each run builds a fresh graph.
func Watch(ctx context.Context, target string, opts Options, debounce time.Duration, fn WatchFunc) error {
	opts = opts.withDefaults()
	log := opts.Logger
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	info, err := stat(target)
	if err != nil {
		return err
	}

	if err := fn(Analyze(ctx, target, opts)); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if info.IsDir() {
		if err := watchTree(watcher, target); err != nil {
			return fmt.Errorf("failed to watch %s: %w", target, err)
		}
	} else if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	log.Info("watching for changes", "target", target)

	// Reset and Stop never leave a stale tick behind (Go 1.23 timers).
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 && info.IsDir() {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						log.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if !relevant(event.Name, target, info.IsDir(), opts.Extension) {
				continue
			}
			log.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			if err := fn(Analyze(ctx, target, opts)); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

// relevant reports whether a change to name should trigger a run.
func relevant(name, target string, dir bool, extension string) bool {
	if !dir {
		return filepath.Clean(name) == filepath.Clean(target)
	}
	return filepath.Ext(name) == extension
}

// watchTree adds dir and every directory below it to the watcher.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

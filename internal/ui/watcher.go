package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the bursts of events a single save produces
const DefaultDebounce = 200 * time.Millisecond

// StatsWatcher calls OnChange whenever the results file is rewritten
type StatsWatcher struct {
	path     string
	debounce time.Duration

	OnChange func()
	OnError  func(error)
}

// NewStatsWatcher creates a watcher for the results file at path
func NewStatsWatcher(path string, debounce time.Duration, onChange func()) *StatsWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &StatsWatcher{
		path:     path,
		debounce: debounce,
		OnChange: onChange,
		OnError:  func(error) {},
	}
}

// Run blocks until ctx is done. The directory is watched rather than the
// file so that atomic renames and recreation are noticed.
func (sw *StatsWatcher) Run(ctx context.Context) error {
	absPath, err := filepath.Abs(sw.path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch results directory: %w", err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(sw.debounce)
			} else {
				timer.Reset(sw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			sw.OnChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			sw.OnError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumine/internal/errors"
	"resumine/internal/types"
	"resumine/internal/utils"

	"github.com/fsnotify/fsnotify"
)

// Watch analyzes .txt resumes created or written under dir until ctx is
// done. Bursts of events on one file collapse into a single analysis after
// the debounce delay. onResult is called from a single goroutine.
func (a *Analyzer) Watch(ctx context.Context, dir string, onResult func(types.AnalysisResult)) error {
	if err := utils.ValidateDirectory(dir); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound, "cannot watch resume directory", err).
			WithContext("directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			a.logger.LogError(closeErr, "Failed to close file watcher")
		}
	}()

	if err := a.addWatchDirs(watcher, dir); err != nil {
		return err
	}

	d := newDebouncer(a.opts.DebounceDelay)
	defer d.stop()

	a.logger.Info("Resume watcher started",
		"directory", dir,
		"recursive", a.opts.Recursive,
		"debounce_delay", a.opts.DebounceDelay)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Resume watcher stopped", "directory", dir)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			a.handleWatchEvent(watcher, d, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.LogError(err, "File watcher error", "directory", dir)

		case path := <-d.ready:
			if _, err := os.Stat(path); err != nil {
				continue // removed before the delay elapsed
			}
			onResult(a.Analyze(ctx, path))
		}
	}
}

func (a *Analyzer) handleWatchEvent(watcher *fsnotify.Watcher, d *debouncer, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if event.Has(fsnotify.Create) && a.opts.Recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := a.addWatchDirs(watcher, event.Name); err != nil {
				a.logger.LogError(err, "Failed to watch new directory", "directory", event.Name)
			}
			return
		}
	}

	if utils.IsResumeFile(event.Name) {
		a.logger.Debug("Resume file changed", "file_path", event.Name, "op", event.Op.String())
		d.trigger(event.Name)
	}
}

// addWatchDirs watches root, and every directory below it when recursive.
func (a *Analyzer) addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	if !a.opts.Recursive {
		return watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", path, err)
			}
		}
		return nil
	})
}

// debouncer delivers a path on ready once no trigger for it has arrived
// for delay.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
	ready  chan string
	done   chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		ready:  make(chan string),
		done:   make(chan struct{}),
	}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if previous, ok := d.timers[path]; ok {
		previous.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[path] != timer {
			d.mu.Unlock()
			return // superseded by a later trigger
		}
		delete(d.timers, path)
		d.mu.Unlock()

		select {
		case d.ready <- path:
		case <-d.done:
		}
	})
	d.timers[path] = timer
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	close(d.done)
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}

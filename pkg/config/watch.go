package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/odvcencio/arrownav/pkg/errors"
)

// ReloadDebounce is how long Watch waits for a burst of file events to settle.
var ReloadDebounce = 100 * time.Millisecond

// Watch reloads the config at path whenever it changes and passes the result
// to fn, along with any load or validation error. The parent directory is
// watched so editors that replace the file are followed. Watch blocks until
// ctx is done and calls fn from its own goroutine.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigWatch, "creating watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigWatch, "watching config directory").WithContext("path", path)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
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
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(ReloadDebounce)
			} else {
				timer.Reset(ReloadDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			fn(LoadFromPath(path))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, errors.Wrap(err, errors.ErrCodeConfigWatch, "watch error").WithContext("path", path))
		}
	}
}

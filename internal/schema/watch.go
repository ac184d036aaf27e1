package schema

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/frontierlabs/worldctl/internal/config"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watch calls fn with the path of every world file written or created under
// dir until ctx is done. Package directories created while watching are
// added. Bursts of events for the same file are debounced. fn runs on the
// calling goroutine, never concurrently and never after Watch returns.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, fn func(path string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, dir); err != nil {
		return err
	}

	ready := make(chan string)
	done := make(chan struct{})
	defer close(done)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	schedule := func(path string) {
		if t, ok := timers[path]; ok {
			t.Stop()
		}
		timers[path] = time.AfterFunc(debounce, func() {
			select {
			case ready <- path:
			case <-done:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-ready:
			delete(timers, path)
			logger.Debug("world file changed", "file", path)
			fn(path)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// Files written before the watch was added produce no event.
					worlds, err := watchNewDir(watcher, event.Name)
					if err != nil {
						logger.Error("failed to watch new directory", "dir", event.Name, "error", err)
					}
					for _, path := range worlds {
						schedule(path)
					}
					continue
				}
			}

			if filepath.Base(event.Name) != config.WorldFileName {
				continue
			}
			schedule(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// watchNewDir watches a directory created after Watch started and returns
// the world files already inside it.
func watchNewDir(watcher *fsnotify.Watcher, dir string) ([]string, error) {
	if err := watchDirRecursive(watcher, dir); err != nil {
		return nil, err
	}
	var worlds []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == config.WorldFileName {
			worlds = append(worlds, path)
		}
		return nil
	})
	return worlds, err
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

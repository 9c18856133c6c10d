// Package watch re-runs a callback whenever a records file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rail44/roster/internal/log"
)

// DebounceDelay collapses bursts of events from a single save
const DebounceDelay = 100 * time.Millisecond

// FileWatcher watches one file
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	onChange func()
	delay    time.Duration
	logger   log.Logger
}

// NewFileWatcher creates a watcher for filePath calling onChange after each
// debounced write or create.
func NewFileWatcher(filePath string, onChange func()) (*FileWatcher, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory so editors that replace the file are still seen
	dir := filepath.Dir(absPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	return &FileWatcher{
		watcher:  watcher,
		filePath: absPath,
		onChange: onChange,
		delay:    DebounceDelay,
		logger:   log.Default(),
	}, nil
}

// Run processes events until ctx is done or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) {
	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.filePath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			fw.logger.Debug("file changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(fw.delay, fw.onChange)
			mu.Unlock()
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// Close stops watching
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

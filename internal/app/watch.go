package app

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/rail44/roster/internal/checksum"
	"github.com/rail44/roster/internal/log"
	"github.com/rail44/roster/internal/snapshot"
	"github.com/rail44/roster/internal/user"
	"github.com/rail44/roster/internal/watch"
)

// CollectFile collects the records in path and returns the users that were
// not cached before
func (a *App) CollectFile(path string) ([]*user.User, error) {
	records, err := snapshot.Import(path)
	if err != nil {
		return nil, err
	}
	return a.collectFresh(records), nil
}

// collectFresh collects records and returns the users that were not cached
// before
func (a *App) collectFresh(records []user.Record) []*user.User {
	var fresh []*user.User
	for _, rec := range records {
		if _, ok := a.factory.Get(rec.ID); ok {
			continue
		}
		fresh = append(fresh, a.factory.Collect([]user.Record{rec})[0])
	}
	return fresh
}

// Watch collects path now and after every change, printing new users, until
// ctx is done
func (a *App) Watch(ctx context.Context, path string) error {
	var (
		mu      sync.Mutex
		stopped bool
	)
	tracker := checksum.NewTracker()
	collect := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("failed to read file", slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		if !tracker.Changed(path, data) {
			log.Debug("file unchanged", slog.String("path", path))
			return
		}

		records, err := snapshot.Decode(data)
		if err != nil {
			log.Error("failed to collect file", slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		fresh := a.collectFresh(records)
		tracker.Mark(path, data)
		log.Info("collected file", slog.String("path", path), slog.Int("new", len(fresh)), slog.Int("cached", a.factory.Len()))
		if len(fresh) == 0 {
			return
		}
		if err := a.Print(fresh); err != nil {
			log.Error("failed to print users", slog.String("error", err.Error()))
		}
	}

	fw, err := watch.NewFileWatcher(path, collect)
	if err != nil {
		return err
	}
	defer fw.Close()

	collect()
	fw.Run(ctx)

	// Wait for an in-flight collect and drop any that fires later
	mu.Lock()
	stopped = true
	mu.Unlock()
	return nil
}

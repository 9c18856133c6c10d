package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rail44/roster/internal/log"
)

// Sync fetches all users and saves them to the configured store
func (a *App) Sync(ctx context.Context) (int, error) {
	users, err := a.factory.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	s, err := a.openStore(ctx, a.cfg)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	if err := s.Save(ctx, users); err != nil {
		return 0, err
	}

	log.Info("synced users", slog.Int("count", len(users)), slog.String("driver", a.cfg.Store.Driver))
	return len(users), nil
}

// Load collects the users held in the configured store and prints them
func (a *App) Load(ctx context.Context) error {
	s, err := a.openStore(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return a.Print(a.factory.Collect(records))
}

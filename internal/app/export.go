package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rail44/roster/internal/log"
	"github.com/rail44/roster/internal/snapshot"
	"github.com/rail44/roster/internal/user"
)

// Export fetches all users and writes their records to a snapshot file
func (a *App) Export(ctx context.Context, path string) (int, error) {
	users, err := a.factory.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	records := make([]user.Record, len(users))
	for i, u := range users {
		records[i] = u.Record()
	}
	if err := snapshot.Export(path, records); err != nil {
		return 0, err
	}

	log.Info("exported users", slog.Int("count", len(records)), slog.String("path", path))
	return len(records), nil
}

// Package store persists collected users.
package store

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rail44/roster/internal/config"
	"github.com/rail44/roster/internal/user"
)

// Store saves and loads user records
type Store interface {
	// Save upserts the users' records
	Save(ctx context.Context, users []*user.User) error
	// Load returns every stored record
	Load(ctx context.Context) ([]user.Record, error)
	Close() error
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens the store selected by cfg
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	table := cfg.Store.Table
	if table == "" {
		table = "users"
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	switch cfg.Store.Driver {
	case "sqlite", "":
		return OpenSQLite(ctx, cfg.GetStoreDSN(), table)
	case "spanner":
		return OpenSpanner(ctx, cfg.GetStoreDSN(), table)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

func records(users []*user.User) []user.Record {
	out := make([]user.Record, len(users))
	for i, u := range users {
		out[i] = u.Record()
	}
	return out
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rail44/roster/internal/user"
)

// SQLite stores users in a local SQLite database
type SQLite struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(ctx context.Context, path, table string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		username TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT ''
	)`, table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	return &SQLite{db: db, table: table}, nil
}

// Save upserts all users in one transaction
func (s *SQLite) Save(ctx context.Context, users []*user.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (id, name, email, username, phone, website)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			username = excluded.username,
			phone = excluded.phone,
			website = excluded.website`, s.table))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records(users) {
		if _, err := stmt.ExecContext(ctx, rec.ID.String(), rec.Name, rec.Email, rec.Username, rec.Phone, rec.Website); err != nil {
			return fmt.Errorf("failed to save user %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Load returns stored records in insertion order
func (s *SQLite) Load(ctx context.Context) ([]user.Record, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, name, email, username, phone, website FROM %s ORDER BY rowid`, s.table))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var out []user.Record
	for rows.Next() {
		var (
			rec user.Record
			id  string
		)
		if err := rows.Scan(&id, &rec.Name, &rec.Email, &rec.Username, &rec.Phone, &rec.Website); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		rec.ID = user.ID(id)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return out, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

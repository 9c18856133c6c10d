package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/rail44/roster/internal/user"
)

var spannerColumns = []string{"id", "name", "email", "username", "phone", "website"}

// Spanner stores users in a Cloud Spanner table with the same columns as the
// SQLite store. The table must already exist.
type Spanner struct {
	client *spanner.Client
	table  string
}

// OpenSpanner connects to database (projects/P/instances/I/databases/D)
func OpenSpanner(ctx context.Context, database, table string) (*Spanner, error) {
	if database == "" {
		return nil, fmt.Errorf("spanner database is required")
	}
	client, err := spanner.NewClient(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("failed to create spanner client: %w", err)
	}
	return &Spanner{client: client, table: table}, nil
}

// mutations builds one InsertOrUpdate per user
func mutations(table string, users []*user.User) []*spanner.Mutation {
	ms := make([]*spanner.Mutation, 0, len(users))
	for _, rec := range records(users) {
		ms = append(ms, spanner.InsertOrUpdate(table, spannerColumns, []any{
			rec.ID.String(), rec.Name, rec.Email, rec.Username, rec.Phone, rec.Website,
		}))
	}
	return ms
}

// Save applies all upserts atomically
func (s *Spanner) Save(ctx context.Context, users []*user.User) error {
	if len(users) == 0 {
		return nil
	}
	if _, err := s.client.Apply(ctx, mutations(s.table, users)); err != nil {
		return fmt.Errorf("failed to apply mutations: %w", err)
	}
	return nil
}

// Load returns stored records ordered by id
func (s *Spanner) Load(ctx context.Context) ([]user.Record, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf(`SELECT id, name, email, username, phone, website FROM %s ORDER BY id`, s.table),
	}

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var out []user.Record
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}

		var (
			id                                     string
			name, email, username, phone, website spanner.NullString
		)
		if err := row.Columns(&id, &name, &email, &username, &phone, &website); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, user.Record{
			ID:       user.ID(id),
			Name:     name.StringVal,
			Email:    email.StringVal,
			Username: username.StringVal,
			Phone:    phone.StringVal,
			Website:  website.StringVal,
		})
	}
	return out, nil
}

// Close releases the client
func (s *Spanner) Close() error {
	s.client.Close()
	return nil
}

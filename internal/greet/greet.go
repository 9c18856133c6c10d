// Package greet produces greetings for users, optionally through a local LLM.
package greet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rail44/roster/internal/user"
)

// DefaultConcurrency bounds concurrent Greet calls in All
const DefaultConcurrency = 4

// Greeter produces a greeting for a user
type Greeter interface {
	Greet(ctx context.Context, u *user.User) (string, error)
}

// Plain greets with User.Hello
type Plain struct{}

// Greet returns u.Hello()
func (Plain) Greet(_ context.Context, u *user.User) (string, error) {
	return u.Hello(), nil
}

// All greets users concurrently, at most limit at a time. Greetings are
// returned in the order of users. The first error cancels the remaining calls.
func All(ctx context.Context, g Greeter, users []*user.User, limit int) ([]string, error) {
	if limit < 1 {
		limit = DefaultConcurrency
	}

	greetings := make([]string, len(users))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, u := range users {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := g.Greet(ctx, u)
			if err != nil {
				return fmt.Errorf("failed to greet user %s: %w", u.ID, err)
			}
			greetings[i] = s
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return greetings, nil
}

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rail44/roster/internal/greet"
)

// ErrNoUsers is returned when the fetch failed; the cause has already been logged
var ErrNoUsers = errors.New("no users fetched")

// FetchOptions controls what Fetch prints after the user list
type FetchOptions struct {
	Greet bool // print one greeting per user
	IDs   bool // print "id instance" per user
}

// Fetch fetches all users, prints them, then greets them
func (a *App) Fetch(ctx context.Context, opts FetchOptions) error {
	if opts.Greet {
		if err := a.CheckGreeter(ctx); err != nil {
			return err
		}
	}

	users := a.factory.FetchAll(ctx)
	if users == nil {
		return ErrNoUsers
	}

	if err := a.Print(users); err != nil {
		return err
	}

	if opts.Greet {
		greetings, err := greet.All(ctx, a.greeter, users, a.cfg.Greeter.Concurrency)
		if err != nil {
			return err
		}
		for _, g := range greetings {
			fmt.Fprintln(a.out, g)
		}
	}

	if opts.IDs {
		for _, u := range users {
			fmt.Fprintf(a.out, "%s %s\n", u.ID, u.Instance)
		}
	}
	return nil
}

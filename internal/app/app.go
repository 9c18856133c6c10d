// Package app wires configuration, the users factory and the output stack
// into the operations behind each command.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rail44/roster/internal/api"
	"github.com/rail44/roster/internal/config"
	"github.com/rail44/roster/internal/formatter"
	"github.com/rail44/roster/internal/greet"
	"github.com/rail44/roster/internal/store"
	"github.com/rail44/roster/internal/user"
)

// App holds the collaborators shared by all commands
type App struct {
	cfg     *config.Config
	api     *api.UserAPI
	factory *user.Factory
	greeter greet.Greeter
	out     io.Writer
	term    formatter.Options

	openStore func(ctx context.Context, cfg *config.Config) (store.Store, error)
}

// Options contains options for creating an App
type Options struct {
	Out        io.Writer
	Terminal   formatter.Options
	HTTPClient *http.Client
	Greeter    greet.Greeter // overrides the configured greeter
}

// New creates an App from cfg
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	userAPI, err := api.New(api.Options{
		Root:       cfg.Endpoint,
		Timeout:    cfg.Timeout.Duration,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	greeter := opts.Greeter
	if greeter == nil {
		greeter, err = newGreeter(cfg, opts.HTTPClient)
		if err != nil {
			return nil, err
		}
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	return &App{
		cfg:       cfg,
		api:       userAPI,
		factory:   user.NewFactory(userAPI),
		greeter:   greeter,
		out:       out,
		term:      opts.Terminal,
		openStore: store.Open,
	}, nil
}

func newGreeter(cfg *config.Config, httpClient *http.Client) (greet.Greeter, error) {
	switch cfg.Greeter.Kind {
	case "ollama":
		return greet.NewOllama(cfg.GetGreeterHost(), cfg.Greeter.Model, httpClient)
	default:
		return greet.Plain{}, nil
	}
}

// Factory returns the users factory
func (a *App) Factory() *user.Factory {
	return a.factory
}

// Greeter returns the configured greeter
func (a *App) Greeter() greet.Greeter {
	return a.greeter
}

// Print writes users in the configured output format
func (a *App) Print(users []*user.User) error {
	return formatter.Write(a.out, formatter.Kind(a.cfg.Output), users, a.term)
}

// modelChecker is implemented by greeters backed by a model that may be missing
type modelChecker interface {
	CheckModel(ctx context.Context) error
}

// CheckGreeter fails when the configured greeter's model is unavailable
func (a *App) CheckGreeter(ctx context.Context) error {
	if mc, ok := a.greeter.(modelChecker); ok {
		return mc.CheckModel(ctx)
	}
	return nil
}

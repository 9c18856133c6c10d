// Package api talks to the remote users endpoint.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rail44/roster/internal/log"
)

// DefaultRoot is the public endpoint users are fetched from
const DefaultRoot = "http://jsonplaceholder.typicode.com/"

// Response is the raw result of a request
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.Code, e.Body)
}

// Options contains options for creating a UserAPI
type Options struct {
	Root       string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     log.Logger // defaults to log.Default(), which follows log.SetLogger
}

// UserAPI fetches users from Root
type UserAPI struct {
	root       string
	httpClient *http.Client
	logger     log.Logger
}

// New creates a UserAPI. An empty Root uses DefaultRoot.
func New(opts Options) (*UserAPI, error) {
	root := opts.Root
	if root == "" {
		root = DefaultRoot
	}
	u, err := url.Parse(root)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", root, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", root)
	}

	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &UserAPI{
		root:       strings.TrimSuffix(root, "/") + "/",
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// URL returns the users endpoint
func (a *UserAPI) URL() string {
	return a.root + "users"
}

// FetchAll performs GET <root>/users
func (a *UserAPI) FetchAll(ctx context.Context) (*Response, error) {
	return a.get(ctx, a.URL())
}

func (a *UserAPI) get(ctx context.Context, target string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "roster")

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	a.logger.Debug("GET",
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail44/roster/internal/log"
)

func TestFetchAll(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Leanne Graham"}]`))
	}))
	defer srv.Close()

	for _, root := range []string{srv.URL, srv.URL + "/"} {
		a, err := New(Options{Root: root})
		require.NoError(t, err)

		resp, err := a.FetchAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/users", gotPath)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[{"id":1,"name":"Leanne Graham"}]`, string(resp.Body))
	}
}

func TestFetchAllStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a, err := New(Options{Root: srv.URL})
	require.NoError(t, err)

	_, err = a.FetchAll(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Contains(t, se.Body, "gone")
}

func TestFetchAllHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	a, err := New(Options{Root: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = a.FetchAll(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewDefaults(t *testing.T) {
	a, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, "http://jsonplaceholder.typicode.com/users", a.URL())

	_, err = New(Options{Root: "ftp://example.com"})
	assert.Error(t, err)
}

func TestFetchAllLogsThroughCurrentLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	require.NoError(t, log.SetLevel(log.LevelDebug))
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.LevelInfo)
	})

	a, err := New(Options{Root: srv.URL})
	require.NoError(t, err)

	// Swapped after construction, as the browse UI does
	var lines []string
	log.SetLogger(log.NewCallbackLogger(func(r slog.Record) {
		lines = append(lines, log.FormatRecord(r))
	}, slog.LevelDebug))

	_, err = a.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[DEBUG] GET url="+srv.URL+"/users status=200")
}

package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail44/roster/internal/config"
	"github.com/rail44/roster/internal/log"
	"github.com/rail44/roster/internal/snapshot"
)

const usersJSON = `[
	{"id": 1, "name": "Leanne Graham", "username": "Bret", "email": "Sincere@april.biz"},
	{"id": 2, "name": "Ervin Howell", "username": "Antonette", "email": "Shanna@melissa.tv"}
]`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, endpoint string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Endpoint = endpoint
	cfg.Output = "plain"
	cfg.Store.DSN = filepath.Join(t.TempDir(), "roster.db")
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	a, err := New(cfg, Options{Out: &out})
	require.NoError(t, err)
	return a, &out
}

// syncBuffer is a bytes.Buffer safe to read while the watcher logs into it
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietLogs(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return buf
}

func TestFetchPrintsGreetsAndIDs(t *testing.T) {
	srv := newServer(t, http.StatusOK, usersJSON)
	a, out := newTestApp(t, srv.URL)

	require.NoError(t, a.Fetch(context.Background(), FetchOptions{Greet: true, IDs: true}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "1\tLeanne Graham\tSincere@april.biz", lines[0])
	assert.Equal(t, "2\tErvin Howell\tShanna@melissa.tv", lines[1])
	assert.Equal(t, "Hello Leanne Graham!", lines[2])
	assert.Equal(t, "Hello Ervin Howell!", lines[3])

	u, ok := a.Factory().Get("1")
	require.True(t, ok)
	assert.Equal(t, "1 "+u.Instance.String(), lines[4])
}

func TestFetchFailureIsLogged(t *testing.T) {
	logs := quietLogs(t)
	srv := newServer(t, http.StatusInternalServerError, "boom")
	a, out := newTestApp(t, srv.URL)

	err := a.Fetch(context.Background(), FetchOptions{Greet: true})
	assert.ErrorIs(t, err, ErrNoUsers)
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "[ERROR] failed to fetch users")
	assert.Contains(t, logs.String(), "status 500")
}

func TestSyncThenLoad(t *testing.T) {
	quietLogs(t)
	srv := newServer(t, http.StatusOK, usersJSON)
	a, _ := newTestApp(t, srv.URL)

	n, err := a.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A fresh app reading the same store sees the synced users
	b, out := newTestApp(t, srv.URL)
	b.cfg.Store.DSN = a.cfg.Store.DSN
	require.NoError(t, b.Load(context.Background()))
	assert.Equal(t, "1\tLeanne Graham\tSincere@april.biz\n2\tErvin Howell\tShanna@melissa.tv\n", out.String())
	assert.Equal(t, 2, b.Factory().Len())
}

func TestSyncFetchError(t *testing.T) {
	srv := newServer(t, http.StatusOK, `not json`)
	a, _ := newTestApp(t, srv.URL)

	_, err := a.Sync(context.Background())
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	quietLogs(t)
	srv := newServer(t, http.StatusOK, usersJSON)
	a, _ := newTestApp(t, srv.URL)
	path := filepath.Join(t.TempDir(), "users.jsonl.gz")

	n, err := a.Export(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := snapshot.Import(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Bret", records[0].Username)
}

func TestCollectFileReturnsOnlyNewUsers(t *testing.T) {
	a, _ := newTestApp(t, "http://localhost/")
	path := filepath.Join(t.TempDir(), "users.json")

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Leanne"}]`), 0644))
	fresh, err := a.CollectFile(path)
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Leanne"},{"id":2,"name":"Ervin"},{"id":2}]`), 0644))
	fresh, err = a.CollectFile(path)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "Ervin", fresh[0].Name)
	assert.Equal(t, 2, a.Factory().Len())
}

func TestNewRejectsBadGreeter(t *testing.T) {
	cfg := config.Default()
	cfg.Greeter.Kind = "ollama"
	cfg.Greeter.Model = ""
	_, err := New(cfg, Options{})
	assert.Error(t, err)
}

func TestWatchCollectsOnChange(t *testing.T) {
	logs := quietLogs(t)
	a, out := newTestApp(t, "http://localhost/")
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Leanne"}]`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, path) }()

	require.Eventually(t, func() bool { return a.Factory().Len() == 1 }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"Leanne"},{"id":2,"name":"Ervin"}]`), 0644))
	require.Eventually(t, func() bool { return a.Factory().Len() == 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, out.String(), "1\tLeanne\t\n")
	assert.Contains(t, out.String(), "2\tErvin\t\n")
	assert.Equal(t, 1, strings.Count(out.String(), "Leanne"), "known users are not printed again")
	assert.Contains(t, logs.String(), "collected file")
}

func TestWatchSkipsUnchangedContent(t *testing.T) {
	logs := quietLogs(t)
	log.SetLevel(log.LevelDebug)
	t.Cleanup(func() { log.SetLevel(log.LevelInfo) })

	a, out := newTestApp(t, "http://localhost/")
	path := filepath.Join(t.TempDir(), "users.json")
	content := []byte(`[{"id":1,"name":"Leanne"}]`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, path) }()

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "collected file")
	}, 5*time.Second, 20*time.Millisecond)

	// Same bytes again
	require.NoError(t, os.WriteFile(path, content, 0644))
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "[DEBUG] file unchanged")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, "1\tLeanne\t\n", out.String())
}

func TestWatchRetriesContentThatFailedToDecode(t *testing.T) {
	logs := quietLogs(t)
	a, out := newTestApp(t, "http://localhost/")
	path := filepath.Join(t.TempDir(), "users.json")
	broken := []byte(`[{"id":1,"name":`)
	require.NoError(t, os.WriteFile(path, broken, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, path) }()

	require.Eventually(t, func() bool {
		return strings.Count(logs.String(), "failed to collect file") == 1
	}, 5*time.Second, 20*time.Millisecond)

	// Identical bytes are decoded again since the last attempt failed
	require.NoError(t, os.WriteFile(path, broken, 0644))
	require.Eventually(t, func() bool {
		return strings.Count(logs.String(), "failed to collect file") == 2
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Empty(t, out.String())
	assert.Equal(t, 0, a.Factory().Len())
}

func TestFetchFailsEarlyWhenGreeterModelMissing(t *testing.T) {
	show := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'gemma3' not found"}`))
	}))
	t.Cleanup(show.Close)

	var fetched atomic.Bool
	users := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched.Store(true)
		w.Write([]byte(usersJSON))
	}))
	t.Cleanup(users.Close)

	cfg := config.Default()
	cfg.Endpoint = users.URL
	cfg.Output = "plain"
	cfg.Greeter.Kind = "ollama"
	cfg.Greeter.Model = "gemma3"
	cfg.Greeter.Host = show.URL
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	a, err := New(cfg, Options{Out: &out})
	require.NoError(t, err)

	err = a.Fetch(context.Background(), FetchOptions{Greet: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model gemma3 not found")
	assert.False(t, fetched.Load())
	assert.Empty(t, out.String())

	// Without greeting the model is not needed
	require.NoError(t, a.Fetch(context.Background(), FetchOptions{}))
	assert.True(t, fetched.Load())
}

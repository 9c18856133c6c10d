package greet

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rail44/roster/internal/user"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type slowGreeter struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	failOn   user.ID
}

func (g *slowGreeter) Greet(ctx context.Context, u *user.User) (string, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if u.ID == g.failOn {
		return "", errors.New("model unavailable")
	}

	select {
	case <-time.After(5 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "hi " + u.Name, nil
}

func users(n int) []*user.User {
	out := make([]*user.User, n)
	for i := range out {
		out[i] = user.New(user.Record{ID: user.ID(string(rune('a' + i))), Name: string(rune('A' + i))})
	}
	return out
}

func TestPlain(t *testing.T) {
	got, err := Plain{}.Greet(context.Background(), user.New(user.Record{Name: "Leanne"}))
	require.NoError(t, err)
	assert.Equal(t, "Hello Leanne!", got)
}

func TestAllPreservesOrderAndLimit(t *testing.T) {
	g := &slowGreeter{}
	got, err := All(context.Background(), g, users(10), 3)
	require.NoError(t, err)

	require.Len(t, got, 10)
	for i, s := range got {
		assert.Equal(t, "hi "+string(rune('A'+i)), s)
	}
	assert.LessOrEqual(t, g.peak.Load(), int32(3))
}

func TestAllReturnsFirstError(t *testing.T) {
	g := &slowGreeter{failOn: "c"}
	_, err := All(context.Background(), g, users(6), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user c")
}

func TestAllEmpty(t *testing.T) {
	got, err := All(context.Background(), Plain{}, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Leanne", displayName(user.New(user.Record{Name: "Leanne"})))
	assert.Equal(t, "sincere", displayName(user.New(user.Record{Email: "sincere@april.biz"})))
	assert.Equal(t, "friend", displayName(user.New(user.Record{})))
}

func TestNewOllamaValidates(t *testing.T) {
	_, err := NewOllama("", "", nil)
	assert.Error(t, err)

	o, err := NewOllama("", "llama3.2", nil)
	require.NoError(t, err)
	assert.NotNil(t, o)
}

package user

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToEmptyStrings(t *testing.T) {
	u := New(Record{ID: "7"})
	assert.Equal(t, "", u.Name)
	assert.Equal(t, "", u.Email)
	assert.Equal(t, ID("7"), u.ID)
}

func TestNewGeneratesDistinctInstances(t *testing.T) {
	rec := Record{ID: "1", Name: "Ervin Howell"}
	a, b := New(rec), New(rec)
	assert.NotEqual(t, a.Instance, b.Instance)
	assert.Equal(t, rec, a.Record())
}

func TestSayHello(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Record{Name: "Clementine Bauch"}).SayHello(&buf))
	assert.Equal(t, "Hello Clementine Bauch!\n", buf.String())
}

package om

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryNilVersusFalse(t *testing.T) {
	e := NewEntry()
	assert.False(t, e.HasChanged())

	// assigning false over an unset value is a change
	e.SetCurrent(false)
	assert.True(t, e.HasChanged())

	former, current, err := e.Diff()
	require.NoError(t, err)
	assert.Nil(t, former)
	assert.Equal(t, false, current)
}

func TestEntryRepeatedWritesKeepBaseline(t *testing.T) {
	e := NewEntry()
	e.SetCurrent("a")
	e.ReceiveStorageAck()
	assert.False(t, e.HasChanged())

	e.SetCurrent("b")
	e.SetCurrent("c")
	former, current, err := e.Diff()
	require.NoError(t, err)
	assert.Equal(t, "a", former)
	assert.Equal(t, "c", current)

	// writing the committed value back cancels the change
	e.SetCurrent("a")
	assert.False(t, e.HasChanged())
	_, _, err = e.Diff()
	assert.ErrorIs(t, err, ErrNoChange)
}

func TestEntryContainerCloning(t *testing.T) {
	e := NewEntry()
	in := NewSet("a", "b")
	e.SetCurrent(in)

	// mutating the caller's set must not leak into the entry
	in["c"] = true
	assert.Equal(t, NewSet("a", "b"), e.Current())

	// mutating a returned set must not leak either
	out := e.Current().(Set)
	out["d"] = true
	assert.Equal(t, NewSet("a", "b"), e.Current())

	l := NewList("x", "y")
	e.SetCurrent(l)
	l[0] = "z"
	assert.Equal(t, NewList("x", "y"), e.Current())
}

func TestEntryCloneIndependence(t *testing.T) {
	e := NewEntry()
	e.SetCurrent(NewSet("a"))
	e.ReceiveStorageAck()

	c := e.Clone()
	c.SetCurrent(NewSet("a", "b"))
	assert.True(t, c.HasChanged())
	assert.False(t, e.HasChanged())
	assert.Equal(t, NewSet("a"), e.Current())
}

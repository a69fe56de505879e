package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSessionFlow(t *testing.T) {
	m := NewReportSessionManager(time.Minute)

	s, ok := m.Begin("100")
	require.True(t, ok)
	assert.Equal(t, StateSelectingBook, s.State)

	assert.True(t, m.SelectBook("100", 7))
	assert.Equal(t, StateEnteringPages, m.Get("100").State)

	assert.True(t, m.RecordPages("100", 25))
	assert.Equal(t, StateConfirming, m.Get("100").State)

	entries, ok := m.Take("100")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].UserBookID)
	assert.Equal(t, 25, entries[0].Pages)

	// Take closed the session.
	assert.Nil(t, m.Get("100"))
}

func TestReportSessionAddAnother(t *testing.T) {
	m := NewReportSessionManager(time.Minute)

	_, ok := m.Begin("100")
	require.True(t, ok)
	require.True(t, m.SelectBook("100", 1))
	require.True(t, m.RecordPages("100", 10))

	assert.True(t, m.AddAnother("100"))
	assert.Equal(t, StateSelectingBook, m.Get("100").State)

	require.True(t, m.SelectBook("100", 2))
	require.True(t, m.RecordPages("100", 5))

	entries, ok := m.Take("100")
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].UserBookID)
	assert.Equal(t, int64(2), entries[1].UserBookID)
}

func TestReportSessionInvalidTransitions(t *testing.T) {
	m := NewReportSessionManager(time.Minute)

	// No session at all.
	assert.False(t, m.SelectBook("100", 1))
	assert.False(t, m.RecordPages("100", 10))
	assert.False(t, m.AddAnother("100"))
	_, ok := m.Take("100")
	assert.False(t, ok)

	_, ok = m.Begin("100")
	require.True(t, ok)

	// SelectingBook only accepts SelectBook.
	assert.False(t, m.RecordPages("100", 10))
	assert.False(t, m.AddAnother("100"))
	_, ok = m.Take("100")
	assert.False(t, ok)

	require.True(t, m.SelectBook("100", 1))

	// EnteringPages rejects a second selection and non-positive pages.
	assert.False(t, m.SelectBook("100", 2))
	assert.False(t, m.RecordPages("100", 0))
	assert.False(t, m.RecordPages("100", -3))
	assert.True(t, m.RecordPages("100", 10))
}

func TestReportSessionOnePerUser(t *testing.T) {
	m := NewReportSessionManager(time.Minute)

	_, ok := m.Begin("100")
	require.True(t, ok)

	_, ok = m.Begin("100")
	assert.False(t, ok)

	// Other users are unaffected.
	_, ok = m.Begin("200")
	assert.True(t, ok)

	m.Cancel("100")
	_, ok = m.Begin("100")
	assert.True(t, ok)
}

func TestReportSessionExpiry(t *testing.T) {
	m := NewReportSessionManager(10 * time.Millisecond)

	s, ok := m.Begin("100")
	require.True(t, ok)
	s.UpdatedAt = time.Now().Add(-time.Second)

	assert.Nil(t, m.Get("100"))

	// An expired session does not block a new one.
	_, ok = m.Begin("100")
	assert.True(t, ok)
}

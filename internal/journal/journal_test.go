package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulanotes/gonebula/internal/store"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAddAndList(t *testing.T) {
	s := store.NewMemStore()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	current := base
	j := New(s, func() time.Time { return current })

	first, err := j.Add("  first thought  ")
	require.NoError(t, err)
	assert.Equal(t, "first thought", first.Text, "entry text should be trimmed")
	assert.NotEmpty(t, first.ID)

	current = base.Add(time.Minute)
	_, err = j.Add("second thought")
	require.NoError(t, err)

	entries, err := j.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second thought", entries[0].Text, "newest entry should come first")
	assert.Equal(t, "first thought", entries[1].Text)
}

func TestAddRejectsEmpty(t *testing.T) {
	j := New(store.NewMemStore(), nil)

	_, err := j.Add("   \n\t  ")
	require.Error(t, err)

	entries, err := j.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete(t *testing.T) {
	j := New(store.NewMemStore(), nil)

	entry, err := j.Add("disposable")
	require.NoError(t, err)
	require.NoError(t, j.Delete(entry.ID))

	entries, err := j.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPromote(t *testing.T) {
	s := store.NewMemStore()
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	j := New(s, fixedClock(now))

	entry, err := j.Add("Call the plumber\nabout the kitchen sink")
	require.NoError(t, err)

	note, err := j.Promote(entry.ID, 120, 240)
	require.NoError(t, err)
	assert.Equal(t, "Call the plumber", note.Title, "title comes from the first line")
	assert.Contains(t, note.Content, "<p>")
	assert.Equal(t, 120.0, note.X)
	assert.Equal(t, 240.0, note.Y)
	assert.Equal(t, now.UnixMilli(), note.CreatedAt)

	// The note exists in the store and the entry is gone.
	stored, err := s.GetNote(note.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	entries, err := j.List()
	require.NoError(t, err)
	assert.Empty(t, entries, "promoted entry should be removed from the journal")
}

func TestPromoteMissingEntry(t *testing.T) {
	j := New(store.NewMemStore(), nil)

	_, err := j.Promote("no-such-id", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPromoteTruncatesLongTitle(t *testing.T) {
	j := New(store.NewMemStore(), nil)

	long := strings.Repeat("word ", 30)
	entry, err := j.Add(long)
	require.NoError(t, err)

	note, err := j.Promote(entry.ID, 0, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(note.Title, "..."))
	assert.LessOrEqual(t, len([]rune(note.Title)), promotedTitleLimit+3)
}

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Store Factory for Testing Both Implementations
// =============================================================================

// storeFactory creates a store for testing.
// We test both MemStore and SQLiteStore with the same test suite.
type storeFactory func() (Storer, error)

func memStoreFactory() (Storer, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (Storer, error) {
	return NewSQLiteStore()
}

// runTestsForAllStores runs a test function against both store implementations.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

// =============================================================================
// Note CRUD Tests
// =============================================================================

func TestNoteUpsertAndGet(t *testing.T) {
	runTestsForAllStores(t, "UpsertAndGet", func(t *testing.T, store Storer) {
		now := time.Now().UnixMilli()
		note := &Note{
			ID:          "note-1",
			Title:       "Groceries",
			Content:     "<p>- [ ] Buy milk</p>",
			PlainText:   "- [ ] Buy milk",
			Color:       "#FFFFFF",
			Folder:      "All Notes",
			X:           120,
			Y:           80,
			Width:       400,
			Height:      320,
			IsCollapsed: false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err := store.UpsertNote(note)
		require.NoError(t, err, "UpsertNote should not error")

		retrieved, err := store.GetNote("note-1")
		require.NoError(t, err, "GetNote should not error")
		require.NotNil(t, retrieved, "Retrieved note should not be nil")

		assert.Equal(t, note.ID, retrieved.ID)
		assert.Equal(t, note.Title, retrieved.Title)
		assert.Equal(t, note.Content, retrieved.Content)
		assert.Equal(t, note.Color, retrieved.Color)
		assert.Equal(t, note.X, retrieved.X)
		assert.Equal(t, note.Width, retrieved.Width)

		// Update
		note.Title = "Groceries (updated)"
		note.IsCollapsed = true
		note.UpdatedAt = time.Now().UnixMilli()
		err = store.UpsertNote(note)
		require.NoError(t, err, "UpsertNote (update) should not error")

		retrieved, err = store.GetNote("note-1")
		require.NoError(t, err)
		require.NotNil(t, retrieved)
		assert.Equal(t, "Groceries (updated)", retrieved.Title)
		assert.True(t, retrieved.IsCollapsed)

		count, err := store.CountNotes()
		require.NoError(t, err)
		assert.Equal(t, 1, count, "upsert should not duplicate")
	})
}

func TestNoteGetMissing(t *testing.T) {
	runTestsForAllStores(t, "GetMissing", func(t *testing.T, store Storer) {
		note, err := store.GetNote("nope")
		require.NoError(t, err)
		assert.Nil(t, note, "missing note should be nil, not an error")
	})
}

func TestNoteDelete(t *testing.T) {
	runTestsForAllStores(t, "Delete", func(t *testing.T, store Storer) {
		now := time.Now().UnixMilli()
		require.NoError(t, store.UpsertNote(&Note{ID: "note-1", Title: "A", Content: "<p>a</p>", CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, store.DeleteNote("note-1"))

		note, err := store.GetNote("note-1")
		require.NoError(t, err)
		assert.Nil(t, note)
	})
}

func TestNoteListByFolder(t *testing.T) {
	runTestsForAllStores(t, "ListByFolder", func(t *testing.T, store Storer) {
		base := time.Now().UnixMilli()
		require.NoError(t, store.UpsertNote(&Note{ID: "a", Title: "A", Content: "<p>a</p>", Folder: "Work", CreatedAt: base, UpdatedAt: base}))
		require.NoError(t, store.UpsertNote(&Note{ID: "b", Title: "B", Content: "<p>b</p>", Folder: "Home", CreatedAt: base + 1, UpdatedAt: base + 1}))
		require.NoError(t, store.UpsertNote(&Note{ID: "c", Title: "C", Content: "<p>c</p>", Folder: "Work", CreatedAt: base + 2, UpdatedAt: base + 2}))

		work, err := store.ListNotes("Work")
		require.NoError(t, err)
		require.Len(t, work, 2)
		assert.Equal(t, "a", work[0].ID, "list should be in creation order")
		assert.Equal(t, "c", work[1].ID)

		all, err := store.ListNotes("")
		require.NoError(t, err)
		assert.Len(t, all, 3, "empty folder filter should return all")
	})
}

// =============================================================================
// Edge CRUD Tests
// =============================================================================

func TestEdgeLifecycle(t *testing.T) {
	runTestsForAllStores(t, "EdgeLifecycle", func(t *testing.T, store Storer) {
		now := time.Now().UnixMilli()
		edge := &Edge{ID: "e-a-b", SourceID: "a", TargetID: "b", CreatedAt: now}

		require.NoError(t, store.UpsertEdge(edge))

		retrieved, err := store.GetEdge("e-a-b")
		require.NoError(t, err)
		require.NotNil(t, retrieved)
		assert.Equal(t, "a", retrieved.SourceID)
		assert.Equal(t, "b", retrieved.TargetID)

		require.NoError(t, store.DeleteEdge("e-a-b"))
		retrieved, err = store.GetEdge("e-a-b")
		require.NoError(t, err)
		assert.Nil(t, retrieved)
	})
}

func TestDeleteEdgesForNote(t *testing.T) {
	runTestsForAllStores(t, "DeleteEdgesForNote", func(t *testing.T, store Storer) {
		now := time.Now().UnixMilli()
		require.NoError(t, store.UpsertEdge(&Edge{ID: "e-a-b", SourceID: "a", TargetID: "b", CreatedAt: now}))
		require.NoError(t, store.UpsertEdge(&Edge{ID: "e-b-c", SourceID: "b", TargetID: "c", CreatedAt: now + 1}))
		require.NoError(t, store.UpsertEdge(&Edge{ID: "e-c-d", SourceID: "c", TargetID: "d", CreatedAt: now + 2}))

		require.NoError(t, store.DeleteEdgesForNote("b"))

		edges, err := store.ListEdges()
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "e-c-d", edges[0].ID)
	})
}

// =============================================================================
// Journal Tests
// =============================================================================

func TestJournalNewestFirst(t *testing.T) {
	runTestsForAllStores(t, "JournalNewestFirst", func(t *testing.T, store Storer) {
		base := time.Now().UnixMilli()
		require.NoError(t, store.AddJournalEntry(&JournalEntry{ID: "j1", Text: "first", Timestamp: base}))
		require.NoError(t, store.AddJournalEntry(&JournalEntry{ID: "j2", Text: "second", Timestamp: base + 10}))

		entries, err := store.ListJournalEntries()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "second", entries[0].Text)
		assert.Equal(t, "first", entries[1].Text)

		require.NoError(t, store.DeleteJournalEntry("j1"))
		entries, err = store.ListJournalEntries()
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

// =============================================================================
// Watcher Tests
// =============================================================================

func TestWatcherNotifiesOnWrites(t *testing.T) {
	w := NewWatcher(NewMemStore())
	defer w.Close()

	var fired int
	w.Subscribe(func() { fired++ })

	now := time.Now().UnixMilli()
	require.NoError(t, w.UpsertNote(&Note{ID: "n1", Title: "A", Content: "<p>a</p>", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, w.UpsertEdge(&Edge{ID: "e1", SourceID: "n1", TargetID: "n1", CreatedAt: now}))
	require.NoError(t, w.DeleteNote("n1"))

	assert.Equal(t, 3, fired, "each successful write should notify once")

	// Reads must not notify
	_, err := w.GetNote("n1")
	require.NoError(t, err)
	assert.Equal(t, 3, fired)
}

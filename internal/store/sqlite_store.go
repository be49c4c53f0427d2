package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore is the SQLite-backed data store.
// Thread-safe for concurrent callers.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines all tables for the canvas data layer.
const schema = `
-- Notes (canvas cards)
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    plain_text TEXT,
    color TEXT,
    folder TEXT,
    x REAL DEFAULT 0,
    y REAL DEFAULT 0,
    width REAL DEFAULT 400,
    height REAL DEFAULT 320,
    is_collapsed INTEGER DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder);
CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);

-- Edges (canvas connections)
-- No foreign keys: referential integrity managed at application level
CREATE TABLE IF NOT EXISTS edges (
    id TEXT PRIMARY KEY,
    source_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);

-- Journal entries
CREATE TABLE IF NOT EXISTS journal (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    timestamp INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_timestamp ON journal(timestamp);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Note CRUD
// =============================================================================

// UpsertNote inserts or updates a note.
func (s *SQLiteStore) UpsertNote(note *Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO notes (id, title, content, plain_text, color, folder,
			x, y, width, height, is_collapsed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			plain_text = excluded.plain_text,
			color = excluded.color,
			folder = excluded.folder,
			x = excluded.x,
			y = excluded.y,
			width = excluded.width,
			height = excluded.height,
			is_collapsed = excluded.is_collapsed,
			updated_at = excluded.updated_at
	`, note.ID, note.Title, note.Content, note.PlainText, note.Color, note.Folder,
		note.X, note.Y, note.Width, note.Height, boolToInt(note.IsCollapsed),
		note.CreatedAt, note.UpdatedAt)

	return err
}

// GetNote retrieves a note by ID.
func (s *SQLiteStore) GetNote(id string) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var note Note
	var isCollapsed int

	err := s.db.QueryRow(`
		SELECT id, title, content, plain_text, color, folder,
			x, y, width, height, is_collapsed, created_at, updated_at
		FROM notes WHERE id = ?
	`, id).Scan(
		&note.ID, &note.Title, &note.Content, &note.PlainText, &note.Color, &note.Folder,
		&note.X, &note.Y, &note.Width, &note.Height, &isCollapsed,
		&note.CreatedAt, &note.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	note.IsCollapsed = isCollapsed != 0
	return &note, nil
}

// DeleteNote removes a note by ID.
func (s *SQLiteStore) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	return err
}

// ListNotes returns all notes, optionally filtered by folder, in canvas order.
func (s *SQLiteStore) ListNotes(folder string) ([]*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error

	if folder != "" {
		rows, err = s.db.Query(`
			SELECT id, title, content, plain_text, color, folder,
				x, y, width, height, is_collapsed, created_at, updated_at
			FROM notes WHERE folder = ? ORDER BY created_at, id
		`, folder)
	} else {
		rows, err = s.db.Query(`
			SELECT id, title, content, plain_text, color, folder,
				x, y, width, height, is_collapsed, created_at, updated_at
			FROM notes ORDER BY created_at, id
		`)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		var note Note
		var isCollapsed int

		if err := rows.Scan(
			&note.ID, &note.Title, &note.Content, &note.PlainText, &note.Color, &note.Folder,
			&note.X, &note.Y, &note.Width, &note.Height, &isCollapsed,
			&note.CreatedAt, &note.UpdatedAt,
		); err != nil {
			return nil, err
		}

		note.IsCollapsed = isCollapsed != 0
		notes = append(notes, &note)
	}

	return notes, rows.Err()
}

// CountNotes returns the total number of notes.
func (s *SQLiteStore) CountNotes() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count)
	return count, err
}

// =============================================================================
// Edge CRUD
// =============================================================================

// UpsertEdge inserts or updates an edge.
func (s *SQLiteStore) UpsertEdge(edge *Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO edges (id, source_id, target_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			target_id = excluded.target_id
	`, edge.ID, edge.SourceID, edge.TargetID, edge.CreatedAt)

	return err
}

// GetEdge retrieves an edge by ID.
func (s *SQLiteStore) GetEdge(id string) (*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var edge Edge
	err := s.db.QueryRow(`
		SELECT id, source_id, target_id, created_at FROM edges WHERE id = ?
	`, id).Scan(&edge.ID, &edge.SourceID, &edge.TargetID, &edge.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &edge, nil
}

// DeleteEdge removes an edge by ID.
func (s *SQLiteStore) DeleteEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM edges WHERE id = ?", id)
	return err
}

// ListEdges returns all edges in creation order.
func (s *SQLiteStore) ListEdges() ([]*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, source_id, target_id, created_at FROM edges ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []*Edge
	for rows.Next() {
		var edge Edge
		if err := rows.Scan(&edge.ID, &edge.SourceID, &edge.TargetID, &edge.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, &edge)
	}

	return edges, rows.Err()
}

// DeleteEdgesForNote removes every edge touching the given note.
func (s *SQLiteStore) DeleteEdgesForNote(noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM edges WHERE source_id = ? OR target_id = ?", noteID, noteID)
	return err
}

// =============================================================================
// Journal CRUD
// =============================================================================

// AddJournalEntry inserts a journal entry.
func (s *SQLiteStore) AddJournalEntry(entry *JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO journal (id, text, timestamp) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text
	`, entry.ID, entry.Text, entry.Timestamp)

	return err
}

// ListJournalEntries returns all journal entries, newest first.
func (s *SQLiteStore) ListJournalEntries() ([]*JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, text, timestamp FROM journal ORDER BY timestamp DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*JournalEntry
	for rows.Next() {
		var entry JournalEntry
		if err := rows.Scan(&entry.ID, &entry.Text, &entry.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteJournalEntry removes a journal entry by ID.
func (s *SQLiteStore) DeleteJournalEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM journal WHERE id = ?", id)
	return err
}

// =============================================================================
// Helpers
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compile-time interface check
var _ Storer = (*SQLiteStore)(nil)

// Package store provides persistence for the note canvas.
// Notes, edges between notes, and journal entries share one Storer
// interface with an in-memory and a SQLite-backed implementation.
package store

// Note represents a single card on the canvas.
// Content is the rich-text HTML body; PlainText is the tag-stripped
// projection kept alongside it for search and previews.
type Note struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	PlainText   string  `json:"plainText"`
	Color       string  `json:"color"`
	Folder      string  `json:"folder"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	IsCollapsed bool    `json:"isCollapsed"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// Edge connects two notes on the canvas.
type Edge struct {
	ID        string `json:"id"`
	SourceID  string `json:"sourceId"`
	TargetID  string `json:"targetId"`
	CreatedAt int64  `json:"createdAt"`
}

// JournalEntry is one line of the daily journal. Entries are append-only
// until deleted or promoted to a note.
type JournalEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Storer defines the interface for data persistence.
// This allows swapping between MemStore (testing) and SQLiteStore (production).
// Reads return (nil, nil) when the record does not exist.
type Storer interface {
	// Notes
	UpsertNote(note *Note) error
	GetNote(id string) (*Note, error)
	DeleteNote(id string) error
	ListNotes(folder string) ([]*Note, error)
	CountNotes() (int, error)

	// Edges
	UpsertEdge(edge *Edge) error
	GetEdge(id string) (*Edge, error)
	DeleteEdge(id string) error
	ListEdges() ([]*Edge, error)
	DeleteEdgesForNote(noteID string) error

	// Journal
	AddJournalEntry(entry *JournalEntry) error
	ListJournalEntries() ([]*JournalEntry, error)
	DeleteJournalEntry(id string) error

	// Lifecycle
	Close() error
}

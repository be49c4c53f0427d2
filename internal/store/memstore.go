package store

import (
	"sort"
	"sync"
)

// MemStore is an in-memory implementation of Storer for testing.
type MemStore struct {
	mu      sync.RWMutex
	notes   map[string]*Note
	edges   map[string]*Edge
	journal map[string]*JournalEntry
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		notes:   make(map[string]*Note),
		edges:   make(map[string]*Edge),
		journal: make(map[string]*JournalEntry),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// =============================================================================
// Note CRUD
// =============================================================================

func (s *MemStore) UpsertNote(note *Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deep copy to avoid mutation issues
	cp := *note
	s.notes[note.ID] = &cp
	return nil
}

func (s *MemStore) GetNote(id string) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if note, ok := s.notes[id]; ok {
		cp := *note
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.notes, id)
	return nil
}

func (s *MemStore) ListNotes(folder string) ([]*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Note
	for _, note := range s.notes {
		if folder == "" || note.Folder == folder {
			cp := *note
			result = append(result, &cp)
		}
	}

	// Stable canvas order: creation time, then ID for ties
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *MemStore) CountNotes() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes), nil
}

// =============================================================================
// Edge CRUD
// =============================================================================

func (s *MemStore) UpsertEdge(edge *Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *edge
	s.edges[edge.ID] = &cp
	return nil
}

func (s *MemStore) GetEdge(id string) (*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if edge, ok := s.edges[id]; ok {
		cp := *edge
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) DeleteEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.edges, id)
	return nil
}

func (s *MemStore) ListEdges() ([]*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Edge
	for _, edge := range s.edges {
		cp := *edge
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *MemStore) DeleteEdgesForNote(noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, edge := range s.edges {
		if edge.SourceID == noteID || edge.TargetID == noteID {
			delete(s.edges, id)
		}
	}
	return nil
}

// =============================================================================
// Journal CRUD
// =============================================================================

func (s *MemStore) AddJournalEntry(entry *JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	s.journal[entry.ID] = &cp
	return nil
}

func (s *MemStore) ListJournalEntries() ([]*JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*JournalEntry
	for _, entry := range s.journal {
		cp := *entry
		result = append(result, &cp)
	}

	// Newest first
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp > result[j].Timestamp
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *MemStore) DeleteJournalEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.journal, id)
	return nil
}

// Compile-time interface check
var _ Storer = (*MemStore)(nil)

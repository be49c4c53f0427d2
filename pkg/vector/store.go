// Package vector keeps an HNSW index of note embeddings for the
// related-notes feature, persisted as a gob snapshot on a hackpadfs
// filesystem. Notes are addressed by their string IDs; the index itself
// is keyed by uint32, so the snapshot carries the key mapping too.
package vector

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector"
)

// Store manages the HNSW index and its persistence.
type Store struct {
	Index *hnsw.HNSW[vector.VF32]
	FS    hackpadfs.FS
	Path  string

	mu   sync.RWMutex
	ids  map[string]uint32 // note ID -> index key
	keys map[uint32]string // index key -> note ID
	next uint32
}

// snapshot is the on-disk form: the raw HNSW nodes plus the note-ID
// mapping needed to rehydrate them.
type snapshot struct {
	Nodes hnsw.Nodes[vector.VF32]
	Keys  map[uint32]string
	Next  uint32
}

// NewStore creates a vector store. If a valid snapshot exists at path it
// is loaded, otherwise a fresh index is initialized.
func NewStore(fs hackpadfs.FS, path string) (*Store, error) {
	s := &Store{
		FS:   fs,
		Path: path,
	}

	if err := s.Load(); err != nil {
		// No snapshot yet; start clean with a cosine surface.
		s.Index = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
		s.ids = make(map[string]uint32)
		s.keys = make(map[uint32]string)
		s.next = 1
	}

	return s, nil
}

// Add inserts an embedding for a note. Re-adding a note reuses its key,
// so searches keep resolving to the right note even though the old
// vector stays in the index.
func (s *Store) Add(noteID string, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Index == nil {
		return fmt.Errorf("index not initialized")
	}
	if noteID == "" {
		return fmt.Errorf("empty note ID")
	}

	if s.Index.Size() > 0 {
		dim := len(s.Index.Head().Vec)
		if len(vec) != dim {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", dim, len(vec))
		}
	}

	key, ok := s.ids[noteID]
	if !ok {
		key = s.next
		s.next++
		s.ids[noteID] = key
		s.keys[key] = noteID
	}

	s.Index.Insert(vector.VF32{Key: key, Vec: vec})
	return nil
}

// Has reports whether a note has been indexed.
func (s *Store) Has(noteID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[noteID]
	return ok
}

// Search returns the IDs of the k notes nearest to vec, closest first.
// Duplicate hits for a re-embedded note are collapsed.
func (s *Store) Search(vec []float32, k int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Index == nil {
		return nil, fmt.Errorf("index not initialized")
	}

	ef := k * 2
	if ef < 100 {
		ef = 100
	}

	if s.Index.Size() > 0 {
		dim := len(s.Index.Head().Vec)
		if len(vec) != dim {
			return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", dim, len(vec))
		}
	}

	query := vector.VF32{Vec: vec}
	results := s.Index.Search(query, k*2, ef)

	seen := make(map[string]bool, k)
	ids := make([]string, 0, k)
	for _, r := range results {
		noteID, ok := s.keys[r.Key]
		if !ok || seen[noteID] {
			continue
		}
		seen[noteID] = true
		ids = append(ids, noteID)
		if len(ids) == k {
			break
		}
	}
	return ids, nil
}

// Related returns up to k notes nearest to vec, excluding the note the
// query came from.
func (s *Store) Related(noteID string, vec []float32, k int) ([]string, error) {
	hits, err := s.Search(vec, k+1)
	if err != nil {
		return nil, err
	}
	related := make([]string, 0, k)
	for _, id := range hits {
		if id == noteID {
			continue
		}
		related = append(related, id)
		if len(related) == k {
			break
		}
	}
	return related, nil
}

// Save persists the index and key mapping to the filesystem.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Index == nil {
		return nil
	}

	snap := snapshot{
		Nodes: s.Index.Nodes(),
		Keys:  s.keys,
		Next:  s.next,
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if err := hackpadfs.WriteFullFile(s.FS, s.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// Load reads the index from the filesystem.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := hackpadfs.ReadFile(s.FS, s.Path)
	if err != nil {
		return err
	}

	var snap snapshot
	dec := gob.NewDecoder(bytes.NewReader(content))
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode index: %w", err)
	}

	s.Index = hnsw.FromNodes[vector.VF32](
		vector.SurfaceVF32(kvector.Cosine()),
		snap.Nodes,
	)
	s.keys = snap.Keys
	s.next = snap.Next
	s.ids = make(map[string]uint32, len(snap.Keys))
	for key, id := range snap.Keys {
		s.ids[id] = key
	}

	return nil
}

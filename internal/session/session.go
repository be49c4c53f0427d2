// Package session wires the canvas together: it owns the store, keeps
// the derived task buckets and the link graph in sync with every write,
// and exposes the operations the canvas UI performs on notes.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nebulanotes/gonebula/internal/assistant"
	"github.com/nebulanotes/gonebula/internal/journal"
	"github.com/nebulanotes/gonebula/internal/store"
	"github.com/nebulanotes/gonebula/pkg/graph"
	"github.com/nebulanotes/gonebula/pkg/richtext"
	"github.com/nebulanotes/gonebula/pkg/search"
	"github.com/nebulanotes/gonebula/pkg/tasks"
	"github.com/nebulanotes/gonebula/pkg/vector"
)

// Offset applied when duplicating a note so the copy doesn't sit exactly
// on top of the original.
const duplicateOffset = 40

// Config configures a session. Store is required. Assistant, Embedder
// and Vectors are optional; the features that need them report an error
// when they are absent.
type Config struct {
	Store     store.Storer
	Now       func() time.Time
	Assistant assistant.Completer
	Embedder  assistant.Embedder
	Vectors   *vector.Store

	// OnInsight receives the connection insight produced in the
	// background after Connect. May be nil.
	OnInsight func(sourceID, targetID, insight string)
}

// Session is the live state of one open canvas.
type Session struct {
	watcher   *store.Watcher
	journal   *journal.Journal
	now       func() time.Time
	assistant assistant.Completer
	embedder  assistant.Embedder
	vectors   *vector.Store
	onInsight func(sourceID, targetID, insight string)

	mu    sync.RWMutex
	tasks tasks.Categorized
	graph *graph.NoteGraph
}

// New creates a session over the given store and derives the initial
// state. Every subsequent store write re-derives tasks and the graph.
func New(cfg Config) (*Session, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("session: store is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	w := store.NewWatcher(cfg.Store)
	s := &Session{
		watcher:   w,
		journal:   journal.New(w, cfg.Now),
		now:       cfg.Now,
		assistant: cfg.Assistant,
		embedder:  cfg.Embedder,
		vectors:   cfg.Vectors,
		onInsight: cfg.OnInsight,
		graph:     graph.NewGraph(),
	}
	w.Subscribe(s.refresh)

	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Store exposes the watched store for direct reads.
func (s *Session) Store() store.Storer { return s.watcher }

// Journal exposes the quick-capture journal.
func (s *Session) Journal() *journal.Journal { return s.journal }

// Close releases the underlying store.
func (s *Session) Close() error { return s.watcher.Close() }

// refresh is the watcher callback; derivation errors surface on the next
// explicit read instead.
func (s *Session) refresh() {
	_ = s.reload()
}

// reload rebuilds the task buckets and the link graph from the store.
func (s *Session) reload() error {
	notes, err := s.watcher.ListNotes("")
	if err != nil {
		return fmt.Errorf("session: list notes: %w", err)
	}
	edges, err := s.watcher.ListEdges()
	if err != nil {
		return fmt.Errorf("session: list edges: %w", err)
	}

	taskNotes := make([]tasks.Note, 0, len(notes))
	g := graph.NewGraph()
	for _, n := range notes {
		taskNotes = append(taskNotes, tasks.Note{ID: n.ID, Content: n.Content})
		g.EnsureNode(n.ID, n.Title)
	}
	for _, e := range edges {
		if g.GetNode(e.SourceID) == nil || g.GetNode(e.TargetID) == nil {
			continue
		}
		g.Connect(e.SourceID, e.TargetID, &graph.LinkEdge{ID: e.ID, CreatedAt: e.CreatedAt})
	}

	now := s.now()
	derived := tasks.Derive(taskNotes, now)
	categorized := tasks.Categorize(derived, now)

	s.mu.Lock()
	s.tasks = categorized
	s.graph = g
	s.mu.Unlock()
	return nil
}

// Tasks returns the current task buckets.
func (s *Session) Tasks() tasks.Categorized {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks
}

// Neighbors returns the notes linked to the given note in either
// direction.
func (s *Session) Neighbors(noteID string) []*graph.NoteNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Neighbors(noteID)
}

// OrphanNotes returns notes with no connections.
func (s *Session) OrphanNotes() []*graph.NoteNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.OrphanNodes()
}

// CreateNoteAt creates a note at a canvas position. Content may be
// legacy markdown or plain text; it is normalized to rich-text HTML.
func (s *Session) CreateNoteAt(title, content string, x, y float64) (*store.Note, error) {
	html := richtext.EnsureHTML(content)
	now := s.now().UnixMilli()
	note := &store.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   html,
		PlainText: richtext.StripHTML(html),
		X:         x,
		Y:         y,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.watcher.UpsertNote(note); err != nil {
		return nil, fmt.Errorf("session: create note: %w", err)
	}
	return note, nil
}

// UpdateNoteContent replaces a note's content and refreshes its plain
// text projection.
func (s *Session) UpdateNoteContent(noteID, content string) (*store.Note, error) {
	note, err := s.watcher.GetNote(noteID)
	if err != nil {
		return nil, fmt.Errorf("session: update note: %w", err)
	}
	if note == nil {
		return nil, fmt.Errorf("session: note %s not found", noteID)
	}

	note.Content = richtext.EnsureHTML(content)
	note.PlainText = richtext.StripHTML(note.Content)
	note.UpdatedAt = s.now().UnixMilli()
	if err := s.watcher.UpsertNote(note); err != nil {
		return nil, fmt.Errorf("session: update note: %w", err)
	}
	return note, nil
}

// DuplicateNote copies a note, offset on the canvas and with " Copy"
// appended to the title.
func (s *Session) DuplicateNote(noteID string) (*store.Note, error) {
	note, err := s.watcher.GetNote(noteID)
	if err != nil {
		return nil, fmt.Errorf("session: duplicate note: %w", err)
	}
	if note == nil {
		return nil, fmt.Errorf("session: note %s not found", noteID)
	}

	now := s.now().UnixMilli()
	dup := *note
	dup.ID = uuid.NewString()
	dup.Title = note.Title + " Copy"
	dup.X = note.X + duplicateOffset
	dup.Y = note.Y + duplicateOffset
	dup.CreatedAt = now
	dup.UpdatedAt = now
	if err := s.watcher.UpsertNote(&dup); err != nil {
		return nil, fmt.Errorf("session: duplicate note: %w", err)
	}
	return &dup, nil
}

// DeleteNote removes a note and every edge touching it.
func (s *Session) DeleteNote(noteID string) error {
	if err := s.watcher.DeleteEdgesForNote(noteID); err != nil {
		return fmt.Errorf("session: delete note: %w", err)
	}
	if err := s.watcher.DeleteNote(noteID); err != nil {
		return fmt.Errorf("session: delete note: %w", err)
	}
	return nil
}

// ToggleTask flips a task's checkbox in its owning note and persists the
// rewritten content. The buckets re-derive through the watcher.
func (s *Session) ToggleTask(task tasks.Task) error {
	note, err := s.watcher.GetNote(task.NoteID)
	if err != nil {
		return fmt.Errorf("session: toggle task: %w", err)
	}
	if note == nil {
		return fmt.Errorf("session: note %s not found", task.NoteID)
	}

	updated, ok := tasks.ToggleAt(note.Content, task.Index)
	if !ok {
		return fmt.Errorf("session: task %d not found in note %s", task.Index, task.NoteID)
	}

	note.Content = updated
	note.PlainText = richtext.StripHTML(updated)
	note.UpdatedAt = s.now().UnixMilli()
	if err := s.watcher.UpsertNote(note); err != nil {
		return fmt.Errorf("session: toggle task: %w", err)
	}
	return nil
}

// Connect links two notes. The edge ID is deterministic, so connecting
// the same pair twice is an upsert. When an assistant is configured, a
// one-line insight about the connection is fetched in the background and
// delivered through OnInsight; failures there are dropped.
func (s *Session) Connect(sourceID, targetID string) (*store.Edge, error) {
	if sourceID == targetID {
		return nil, fmt.Errorf("session: cannot connect a note to itself")
	}
	source, err := s.watcher.GetNote(sourceID)
	if err != nil {
		return nil, fmt.Errorf("session: connect: %w", err)
	}
	target, err := s.watcher.GetNote(targetID)
	if err != nil {
		return nil, fmt.Errorf("session: connect: %w", err)
	}
	if source == nil || target == nil {
		return nil, fmt.Errorf("session: both notes must exist")
	}

	edge := &store.Edge{
		ID:        fmt.Sprintf("e-%s-%s", sourceID, targetID),
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.watcher.UpsertEdge(edge); err != nil {
		return nil, fmt.Errorf("session: connect: %w", err)
	}

	if s.assistant != nil && s.onInsight != nil {
		prompt := assistant.ConnectionInsight(source.PlainText, target.PlainText)
		go func() {
			insight, err := s.assistant.Complete(prompt, assistant.CallOptions{MaxTokens: 100})
			if err != nil {
				return
			}
			s.onInsight(sourceID, targetID, insight)
		}()
	}
	return edge, nil
}

// Disconnect removes the edge between two notes.
func (s *Session) Disconnect(sourceID, targetID string) error {
	return s.watcher.DeleteEdge(fmt.Sprintf("e-%s-%s", sourceID, targetID))
}

// Search runs a full-text query over all notes.
func (s *Session) Search(query string) ([]search.Result, error) {
	notes, err := s.watcher.ListNotes("")
	if err != nil {
		return nil, fmt.Errorf("session: search: %w", err)
	}
	docs := make([]search.Document, 0, len(notes))
	for _, n := range notes {
		docs = append(docs, search.Document{ID: n.ID, Title: n.Title, Text: n.PlainText})
	}
	return search.Search(docs, query), nil
}

// IndexNote embeds a note's text and adds it to the vector index.
// Requires an embedder and a vector store.
func (s *Session) IndexNote(noteID string) error {
	if s.embedder == nil || s.vectors == nil {
		return fmt.Errorf("session: embeddings not configured")
	}
	note, err := s.watcher.GetNote(noteID)
	if err != nil {
		return fmt.Errorf("session: index note: %w", err)
	}
	if note == nil {
		return fmt.Errorf("session: note %s not found", noteID)
	}

	vec, err := s.embedder.Embed(note.Title + "\n" + note.PlainText)
	if err != nil {
		return fmt.Errorf("session: index note: %w", err)
	}
	if err := s.vectors.Add(note.ID, vec); err != nil {
		return fmt.Errorf("session: index note: %w", err)
	}
	return nil
}

// RelatedNotes returns up to k notes semantically close to the given
// note. Requires an embedder and a vector store.
func (s *Session) RelatedNotes(noteID string, k int) ([]*store.Note, error) {
	if s.embedder == nil || s.vectors == nil {
		return nil, fmt.Errorf("session: embeddings not configured")
	}
	note, err := s.watcher.GetNote(noteID)
	if err != nil {
		return nil, fmt.Errorf("session: related notes: %w", err)
	}
	if note == nil {
		return nil, fmt.Errorf("session: note %s not found", noteID)
	}

	vec, err := s.embedder.Embed(note.Title + "\n" + note.PlainText)
	if err != nil {
		return nil, fmt.Errorf("session: related notes: %w", err)
	}
	ids, err := s.vectors.Related(noteID, vec, k)
	if err != nil {
		return nil, fmt.Errorf("session: related notes: %w", err)
	}

	related := make([]*store.Note, 0, len(ids))
	for _, id := range ids {
		n, err := s.watcher.GetNote(id)
		if err != nil {
			return nil, fmt.Errorf("session: related notes: %w", err)
		}
		if n != nil {
			related = append(related, n)
		}
	}
	return related, nil
}

// Summarize asks the assistant for a short summary of a note.
func (s *Session) Summarize(noteID string) (string, error) {
	return s.askAboutNote(noteID, assistant.Summarize)
}

// SuggestTitle asks the assistant for a title for a note.
func (s *Session) SuggestTitle(noteID string) (string, error) {
	return s.askAboutNote(noteID, assistant.GenerateTitle)
}

// ExtractTasks asks the assistant to pull actionable items out of a note
// as checkbox lines, ready to append to its content.
func (s *Session) ExtractTasks(noteID string) (string, error) {
	return s.askAboutNote(noteID, assistant.ExtractTasks)
}

func (s *Session) askAboutNote(noteID string, prompt func(string) string) (string, error) {
	if s.assistant == nil {
		return "", fmt.Errorf("session: assistant not configured")
	}
	note, err := s.watcher.GetNote(noteID)
	if err != nil {
		return "", fmt.Errorf("session: %w", err)
	}
	if note == nil {
		return "", fmt.Errorf("session: note %s not found", noteID)
	}
	return s.assistant.Complete(prompt(note.PlainText), assistant.CallOptions{})
}

package store

import "sync"

// Watcher wraps a Storer and notifies subscribers after every successful
// write. It stands in for the hosted database's push subscription: callers
// that derive state from the note set re-run on each notification.
type Watcher struct {
	Storer

	mu   sync.Mutex
	subs []func()
}

// NewWatcher wraps the given store.
func NewWatcher(s Storer) *Watcher {
	return &Watcher{Storer: s}
}

// Subscribe registers fn to run after each successful write.
// Callbacks run synchronously on the writing goroutine, in
// subscription order.
func (w *Watcher) Subscribe(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs = append(w.subs, fn)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	subs := make([]func(), len(w.subs))
	copy(subs, w.subs)
	w.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func (w *Watcher) UpsertNote(note *Note) error {
	if err := w.Storer.UpsertNote(note); err != nil {
		return err
	}
	w.notify()
	return nil
}

func (w *Watcher) DeleteNote(id string) error {
	if err := w.Storer.DeleteNote(id); err != nil {
		return err
	}
	w.notify()
	return nil
}

func (w *Watcher) UpsertEdge(edge *Edge) error {
	if err := w.Storer.UpsertEdge(edge); err != nil {
		return err
	}
	w.notify()
	return nil
}

func (w *Watcher) DeleteEdge(id string) error {
	if err := w.Storer.DeleteEdge(id); err != nil {
		return err
	}
	w.notify()
	return nil
}

func (w *Watcher) DeleteEdgesForNote(noteID string) error {
	if err := w.Storer.DeleteEdgesForNote(noteID); err != nil {
		return err
	}
	w.notify()
	return nil
}

func (w *Watcher) AddJournalEntry(entry *JournalEntry) error {
	if err := w.Storer.AddJournalEntry(entry); err != nil {
		return err
	}
	w.notify()
	return nil
}

func (w *Watcher) DeleteJournalEntry(id string) error {
	if err := w.Storer.DeleteJournalEntry(id); err != nil {
		return err
	}
	w.notify()
	return nil
}

// Compile-time interface check
var _ Storer = (*Watcher)(nil)

// Package journal implements the quick-capture journal: timestamped
// text entries that can later be promoted into full canvas notes.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nebulanotes/gonebula/internal/store"
	"github.com/nebulanotes/gonebula/pkg/richtext"
)

// Length cap for titles derived from entry text when promoting.
const promotedTitleLimit = 50

// Journal manages quick-capture entries on top of a store.
type Journal struct {
	store store.Storer
	now   func() time.Time
}

// New creates a journal. A nil clock uses time.Now.
func New(s store.Storer, now func() time.Time) *Journal {
	if now == nil {
		now = time.Now
	}
	return &Journal{store: s, now: now}
}

// Add records a new entry. Text is trimmed; empty entries are rejected.
func (j *Journal) Add(text string) (*store.JournalEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("journal: empty entry")
	}

	entry := &store.JournalEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: j.now().UnixMilli(),
	}
	if err := j.store.AddJournalEntry(entry); err != nil {
		return nil, fmt.Errorf("journal: add entry: %w", err)
	}
	return entry, nil
}

// List returns all entries, newest first.
func (j *Journal) List() ([]*store.JournalEntry, error) {
	return j.store.ListJournalEntries()
}

// Delete removes an entry.
func (j *Journal) Delete(id string) error {
	return j.store.DeleteJournalEntry(id)
}

// Promote turns an entry into a canvas note at the given position and
// removes it from the journal. The note title is the start of the entry
// text.
func (j *Journal) Promote(id string, x, y float64) (*store.Note, error) {
	entries, err := j.store.ListJournalEntries()
	if err != nil {
		return nil, fmt.Errorf("journal: promote: %w", err)
	}

	var entry *store.JournalEntry
	for _, e := range entries {
		if e.ID == id {
			entry = e
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("journal: entry %s not found", id)
	}

	now := j.now().UnixMilli()
	note := &store.Note{
		ID:        uuid.NewString(),
		Title:     entryTitle(entry.Text),
		Content:   richtext.PlainTextToHTML(entry.Text),
		PlainText: entry.Text,
		X:         x,
		Y:         y,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := j.store.UpsertNote(note); err != nil {
		return nil, fmt.Errorf("journal: promote: %w", err)
	}
	if err := j.store.DeleteJournalEntry(id); err != nil {
		return nil, fmt.Errorf("journal: promote: %w", err)
	}
	return note, nil
}

// entryTitle derives a note title from the first line of entry text.
func entryTitle(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)

	runes := []rune(line)
	if len(runes) > promotedTitleLimit {
		return string(runes[:promotedTitleLimit]) + "..."
	}
	return line
}

// Package tasks extracts checkbox tasks from note content and buckets them
// by due date. Tasks are derived, never stored: every change to the note
// set triggers a full re-derivation, and completion is toggled by rewriting
// the owning note's content.
package tasks

import "time"

// Note is the engine's read-only view of a note: an ID and its raw content.
type Note struct {
	ID      string
	Content string
}

// Task is one checkbox item derived from a note.
//
// ID is "{noteID}-{index}" where index is the item's position among the
// note's checkbox items at derivation time. Inserting or removing an item
// above another shifts every later index, so IDs are only stable within a
// single derivation pass. Do not key cross-pass state (selection,
// animation) on them.
type Task struct {
	ID        string
	NoteID    string
	Index     int
	Text      string
	Completed bool
	Due       time.Time
	HasDue    bool
	NoteLabel string
}

// Categorized partitions incomplete tasks into the six display buckets.
// Completed tasks are kept out of the buckets and listed separately.
type Categorized struct {
	Overdue   []Task
	Today     []Task
	Tomorrow  []Task
	ThisWeek  []Task
	Later     []Task
	NoDate    []Task
	Completed []Task
}

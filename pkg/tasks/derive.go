package tasks

import (
	"fmt"
	"time"

	"github.com/nebulanotes/gonebula/pkg/richtext"
)

// noteLabelLimit caps the plain-text note preview attached to each task.
const noteLabelLimit = 60

// Derive runs one full derivation pass: every note is scanned for checkbox
// items and each item becomes a Task. Output order is note order, then
// in-note document order. Deriving twice from the same notes at the same
// instant yields identical output.
func Derive(notes []Note, now time.Time) []Task {
	var all []Task

	for _, note := range notes {
		items := Extract(note.Content)
		if len(items) == 0 {
			continue
		}

		label := noteLabel(note.Content)
		for i, item := range items {
			text, due, hasDue := ParseDue(item.RawText, now)
			all = append(all, Task{
				ID:        fmt.Sprintf("%s-%d", note.ID, i),
				NoteID:    note.ID,
				Index:     i,
				Text:      text,
				Completed: item.Checked,
				Due:       due,
				HasDue:    hasDue,
				NoteLabel: label,
			})
		}
	}

	return all
}

// noteLabel builds the truncated plain-text preview of a note.
func noteLabel(content string) string {
	preview := richtext.StripHTML(content)
	runes := []rune(preview)
	if len(runes) <= noteLabelLimit {
		return preview
	}
	return string(runes[:noteLabelLimit]) + "..."
}

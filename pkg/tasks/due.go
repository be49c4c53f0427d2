package tasks

import (
	"strings"
	"time"
)

// dueToken marks a due-date annotation inside a checkbox item's text,
// e.g. "Finish report @due:2025-01-31" or "Call vendor @due:today".
const dueToken = "@due:"

// dueLayouts are the accepted annotation value formats, tried in order.
var dueLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// splitDue separates the first due annotation from raw text.
// It returns the text with the token, its value and one trailing
// whitespace character removed (then trimmed), the raw value, and whether
// an annotation was found. Later annotations are left in the text as-is.
func splitDue(raw string) (text, value string, found bool) {
	idx := strings.Index(raw, dueToken)
	if idx == -1 {
		return strings.TrimSpace(raw), "", false
	}

	valStart := idx + len(dueToken)
	valEnd := valStart
	for valEnd < len(raw) && !isSpace(raw[valEnd]) {
		valEnd++
	}
	if valEnd == valStart {
		// "@due:" with no value is not an annotation
		return strings.TrimSpace(raw), "", false
	}

	cut := valEnd
	if cut < len(raw) && isSpace(raw[cut]) {
		cut++
	}

	return strings.TrimSpace(raw[:idx] + raw[cut:]), raw[valStart:valEnd], true
}

// ResolveDue turns an annotation value into a due timestamp.
// The literal "today" resolves to the last instant of the current day, so a
// task due today only becomes overdue once the day has fully elapsed. Any
// other value is parsed against dueLayouts in local time; values that parse
// as nothing yield ok=false and are treated as "no date" by categorization.
func ResolveDue(value string, now time.Time) (time.Time, bool) {
	if value == "today" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 23, 59, 59, 999e6, now.Location()), true
	}

	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDue splits an item's raw text into display text and an optional due
// date. Malformed values never fail: they degrade to "no date".
func ParseDue(raw string, now time.Time) (text string, due time.Time, hasDue bool) {
	text, value, found := splitDue(raw)
	if !found {
		return text, time.Time{}, false
	}
	due, ok := ResolveDue(value, now)
	if !ok {
		return text, time.Time{}, false
	}
	return text, due, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

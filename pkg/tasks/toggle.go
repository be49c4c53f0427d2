package tasks

import "strings"

// span is a pending marker replacement inside note content.
type span struct {
	start, end int
	repl       string
}

// flipped returns the marker text for an item's opposite state.
func flipped(item Item) string {
	if item.html {
		if item.Checked {
			return "unchecked"
		}
		return "checked"
	}
	if item.Checked {
		return " "
	}
	return "x"
}

// applySpans rewrites content with the collected replacements. Spans are
// applied back-to-front so earlier offsets stay valid.
func applySpans(content string, spans []span) string {
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		content = content[:s.start] + s.repl + content[s.end:]
	}
	return content
}

// ToggleAt flips the checkbox at the given extraction ordinal and returns
// the updated content. This is the preferred toggle: it is keyed the same
// way Task identity is, so it never has to guess between items with
// similar text. Returns ok=false when the index does not exist.
func ToggleAt(content string, index int) (string, bool) {
	items := Extract(content)
	if index < 0 || index >= len(items) {
		return content, false
	}
	item := items[index]
	return applySpans(content, []span{{item.markerStart, item.markerEnd, flipped(item)}}), true
}

// ToggleMatching flips every checkbox whose description (annotation
// stripped) equals text, or whose raw description contains text as a
// substring. All matches flip together: the matching is substring-based
// and cannot always disambiguate, so callers wanting a single flip should
// use ToggleAt. Returns the updated content and the number of items
// flipped; zero matches leave the content untouched.
func ToggleMatching(content, text string) (string, int) {
	var spans []span
	for _, item := range Extract(content) {
		clean, _, _ := splitDue(item.RawText)
		if clean == text || strings.Contains(item.RawText, text) {
			spans = append(spans, span{item.markerStart, item.markerEnd, flipped(item)})
		}
	}
	if len(spans) == 0 {
		return content, 0
	}
	return applySpans(content, spans), len(spans)
}

package tasks

import (
	"strings"

	"github.com/nebulanotes/gonebula/pkg/richtext"
)

// Item is one checkbox occurrence in note content, in document order.
// markerStart/markerEnd delimit the state marker inside the source string:
// the single character between brackets for markdown items, or the
// data-list attribute value for HTML items. Toggling rewrites exactly that
// span and nothing else.
type Item struct {
	Checked bool
	RawText string

	markerStart int
	markerEnd   int
	html        bool
}

// Extract returns the checkbox items of content in document order.
// HTML-shaped content is scanned for <li data-list="checked|unchecked">
// elements; anything else is scanned line by line for markdown task syntax
// ("- [ ]" / "- [x]", x case-insensitive). The source string is never
// modified. No items is not an error.
func Extract(content string) []Item {
	if richtext.LooksLikeHTML(content) {
		return extractHTML(content)
	}
	return extractMarkdown(content)
}

// extractMarkdown scans for lines of the form "- [ ] text" with optional
// leading indent. Single pass, offset-tracking.
func extractMarkdown(content string) []Item {
	var items []Item

	lineStart := 0
	for lineStart <= len(content) {
		lineEnd := strings.IndexByte(content[lineStart:], '\n')
		if lineEnd == -1 {
			lineEnd = len(content)
		} else {
			lineEnd += lineStart
		}

		if item, ok := scanTaskLine(content, lineStart, lineEnd); ok {
			items = append(items, item)
		}

		lineStart = lineEnd + 1
	}

	return items
}

// scanTaskLine matches one line against the task pattern:
// indent? '-' spaces '[' (' '|'x'|'X') ']' space text.
func scanTaskLine(content string, start, end int) (Item, bool) {
	i := start
	for i < end && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	if i >= end || content[i] != '-' {
		return Item{}, false
	}
	i++
	if i >= end || (content[i] != ' ' && content[i] != '\t') {
		return Item{}, false
	}
	for i < end && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	if i+2 >= end || content[i] != '[' {
		return Item{}, false
	}
	state := content[i+1]
	if state != ' ' && state != 'x' && state != 'X' {
		return Item{}, false
	}
	if content[i+2] != ']' {
		return Item{}, false
	}
	marker := i + 1
	i += 3

	// At least one separating space, then the description.
	if i >= end || (content[i] != ' ' && content[i] != '\t') {
		return Item{}, false
	}
	for i < end && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	raw := content[i:end]
	if strings.TrimSpace(raw) == "" {
		return Item{}, false
	}

	return Item{
		Checked:     state == 'x' || state == 'X',
		RawText:     strings.TrimRight(raw, " \t\r"),
		markerStart: marker,
		markerEnd:   marker + 1,
	}, true
}

// extractHTML scans for <li data-list="checked|unchecked"> items, the form
// the rich-text editor emits for task lists.
func extractHTML(content string) []Item {
	var items []Item

	i := 0
	for i < len(content) {
		li := strings.Index(content[i:], "<li")
		if li == -1 {
			break
		}
		li += i

		tagEnd := strings.IndexByte(content[li:], '>')
		if tagEnd == -1 {
			break
		}
		tagEnd += li

		attrs := content[li:tagEnd]
		valStart, valEnd, ok := findListAttr(attrs)
		if !ok {
			i = tagEnd + 1
			continue
		}
		state := attrs[valStart:valEnd]
		if state != "checked" && state != "unchecked" {
			i = tagEnd + 1
			continue
		}

		closeIdx := strings.Index(content[tagEnd:], "</li>")
		if closeIdx == -1 {
			break
		}
		closeIdx += tagEnd

		inner := richtext.StripHTML(content[tagEnd+1 : closeIdx])
		if inner != "" {
			items = append(items, Item{
				Checked:     state == "checked",
				RawText:     inner,
				markerStart: li + valStart,
				markerEnd:   li + valEnd,
				html:        true,
			})
		}

		i = closeIdx + len("</li>")
	}

	return items
}

// findListAttr locates the quoted value of data-list within a tag's
// attribute text, returning offsets relative to that text.
func findListAttr(attrs string) (start, end int, ok bool) {
	idx := strings.Index(attrs, `data-list="`)
	if idx == -1 {
		return 0, 0, false
	}
	start = idx + len(`data-list="`)
	rel := strings.IndexByte(attrs[start:], '"')
	if rel == -1 {
		return 0, 0, false
	}
	return start, start + rel, true
}

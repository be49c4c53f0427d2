// Package richtext converts between the editor's HTML representation and
// the legacy plain/markdown note format. Older notes were stored as
// markdown-ish plain text; the editor only understands HTML, so everything
// is normalized through EnsureHTML on load.
package richtext

import (
	"fmt"
	"strings"
)

// EmptyBlock is the canonical empty editor document.
const EmptyBlock = "<p><br/></p>"

// LooksLikeHTML reports whether content is already in the editor's HTML form.
func LooksLikeHTML(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "<") && strings.Contains(t, ">")
}

// StripHTML removes tags and collapses whitespace to a single-line preview.
func StripHTML(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	inTag := false
	for i := 0; i < len(input); i++ {
		switch {
		case input[i] == '<':
			inTag = true
			b.WriteByte(' ')
		case input[i] == '>':
			inTag = false
		case !inTag:
			b.WriteByte(input[i])
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes text for embedding in markup.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// PlainTextToHTML wraps plain text in paragraph blocks. Blank lines split
// paragraphs; single newlines become <br/>.
func PlainTextToHTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return EmptyBlock
	}

	var b strings.Builder
	for _, block := range splitBlocks(text) {
		withBreaks := strings.ReplaceAll(EscapeHTML(block), "\n", "<br/>")
		b.WriteString("<p>")
		b.WriteString(withBreaks)
		b.WriteString("</p>")
	}
	return b.String()
}

// splitBlocks splits on runs of two or more newlines.
func splitBlocks(text string) []string {
	var blocks []string
	start := 0
	i := 0
	for i < len(text) {
		if text[i] == '\n' && i+1 < len(text) && text[i+1] == '\n' {
			blocks = append(blocks, text[start:i])
			for i < len(text) && text[i] == '\n' {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(text) {
		blocks = append(blocks, text[start:])
	}
	return blocks
}

// EnsureHTML returns content ready for the editor: HTML passes through,
// anything else runs the legacy markdown conversion.
func EnsureHTML(value string) string {
	if strings.TrimSpace(value) == "" {
		return EmptyBlock
	}
	if LooksLikeHTML(value) {
		return strings.TrimSpace(value)
	}
	return convertLegacyMarkdown(value)
}

// listBuffers accumulates consecutive list items of one kind until a
// non-list line forces a flush.
type listBuffers struct {
	tasks   []string
	bullets []string
	ordered []string
}

func buildList(items []string, tag string, taskList bool) string {
	if len(items) == 0 {
		return ""
	}
	class := ` class="ql-indent-0"`
	if taskList {
		class = ` class="ql-task-list ql-indent-0"`
	}
	return "<" + tag + class + ">" + strings.Join(items, "") + "</" + tag + ">"
}

// flush closes every open list except keep ("" closes all).
func (lb *listBuffers) flush(keep string) string {
	var html string
	if keep != "tasks" && len(lb.tasks) > 0 {
		html += buildList(lb.tasks, "ul", true)
		lb.tasks = nil
	}
	if keep != "bullets" && len(lb.bullets) > 0 {
		html += buildList(lb.bullets, "ul", false)
		lb.bullets = nil
	}
	if keep != "ordered" && len(lb.ordered) > 0 {
		html += buildList(lb.ordered, "ol", false)
		lb.ordered = nil
	}
	return html
}

func flushBlockquote(buffer *[]string) string {
	if len(*buffer) == 0 {
		return ""
	}
	html := "<blockquote>" + PlainTextToHTML(strings.Join(*buffer, "\n")) + "</blockquote>"
	*buffer = nil
	return html
}

func convertLegacyMarkdown(value string) string {
	lines := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")

	var buffers listBuffers
	var blockquote []string
	var html strings.Builder

	for _, rawLine := range lines {
		line := strings.TrimRight(rawLine, " \t")

		if strings.TrimSpace(line) == "" {
			html.WriteString(flushBlockquote(&blockquote))
			html.WriteString(buffers.flush(""))
			continue
		}

		if level, text, ok := parseHeading(line); ok {
			html.WriteString(flushBlockquote(&blockquote))
			html.WriteString(buffers.flush(""))
			fmt.Fprintf(&html, "<h%d>%s</h%d>", level, EscapeHTML(strings.TrimSpace(text)), level)
			continue
		}

		if isDivider(line) {
			html.WriteString(flushBlockquote(&blockquote))
			html.WriteString(buffers.flush(""))
			html.WriteString("<hr/>")
			continue
		}

		if checked, text, ok := parseCheckboxLine(line); ok {
			html.WriteString(flushBlockquote(&blockquote))
			html.WriteString(buffers.flush("tasks"))
			state := "unchecked"
			if checked {
				state = "checked"
			}
			buffers.tasks = append(buffers.tasks,
				`<li data-list="`+state+`">`+EscapeHTML(strings.TrimSpace(text))+"</li>")
			continue
		}

		if text, ok := parseBulletLine(line); ok {
			html.WriteString(flushBlockquote(&blockquote))
			html.WriteString(buffers.flush("bullets"))
			buffers.bullets = append(buffers.bullets, "<li>"+EscapeHTML(strings.TrimSpace(text))+"</li>")
			continue
		}

		if text, ok := parseOrderedLine(line); ok {
			html.WriteString(flushBlockquote(&blockquote))
			html.WriteString(buffers.flush("ordered"))
			buffers.ordered = append(buffers.ordered, "<li>"+EscapeHTML(strings.TrimSpace(text))+"</li>")
			continue
		}

		if strings.HasPrefix(line, ">") {
			withoutMarker := strings.TrimPrefix(line, ">")
			withoutMarker = strings.TrimPrefix(withoutMarker, " ")
			blockquote = append(blockquote, withoutMarker)
			continue
		}

		html.WriteString(flushBlockquote(&blockquote))
		html.WriteString(buffers.flush(""))
		html.WriteString(PlainTextToHTML(line))
	}

	html.WriteString(flushBlockquote(&blockquote))
	html.WriteString(buffers.flush(""))

	if html.Len() == 0 {
		return EmptyBlock
	}
	return html.String()
}

// parseHeading matches 1-6 leading # followed by a space.
func parseHeading(line string) (level int, text string, ok bool) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i < 1 || i > 6 || i >= len(line) || line[i] != ' ' {
		return 0, "", false
	}
	rest := line[i+1:]
	if strings.TrimSpace(rest) == "" {
		return 0, "", false
	}
	return i, rest, true
}

// isDivider matches a line of three or more -, * or _ (one kind only).
func isDivider(line string) bool {
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}

// parseCheckboxLine matches "- [ ] text" / "* [x] text" (x case-insensitive).
func parseCheckboxLine(line string) (checked bool, text string, ok bool) {
	i := 0
	if i >= len(line) || (line[i] != '-' && line[i] != '*') {
		return false, "", false
	}
	i++
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i+2 >= len(line) || line[i] != '[' {
		return false, "", false
	}
	state := line[i+1]
	if state != ' ' && state != 'x' && state != 'X' {
		return false, "", false
	}
	if line[i+2] != ']' {
		return false, "", false
	}
	i += 3
	if i >= len(line) || (line[i] != ' ' && line[i] != '\t') {
		return false, "", false
	}
	rest := strings.TrimLeft(line[i:], " \t")
	if rest == "" {
		return false, "", false
	}
	return state == 'x' || state == 'X', rest, true
}

// parseBulletLine matches "- text" / "* text".
func parseBulletLine(line string) (text string, ok bool) {
	if len(line) < 3 || (line[0] != '-' && line[0] != '*') || line[1] != ' ' {
		return "", false
	}
	rest := strings.TrimLeft(line[1:], " \t")
	if rest == "" {
		return "", false
	}
	return rest, true
}

// parseOrderedLine matches "1. text".
func parseOrderedLine(line string) (text string, ok bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(line) || line[i] != '.' || line[i+1] != ' ' {
		return "", false
	}
	rest := strings.TrimLeft(line[i+1:], " \t")
	if rest == "" {
		return "", false
	}
	return rest, true
}

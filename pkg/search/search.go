// Package search implements full-text note search. Query terms are
// compiled into a single Aho-Corasick automaton, so every note is
// scanned in one O(n) pass regardless of how many terms the query has.
package search

import (
	"sort"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Title hits count more than body hits when ranking.
const titleWeight = 3

// Document is a note as the search index sees it: its title plus the
// plain text of its content.
type Document struct {
	ID    string
	Title string
	Text  string
}

// Span is a matched byte range, for highlighting.
type Span struct {
	Start int
	End   int
}

// Result is one matching note, with the spans that matched.
type Result struct {
	ID         string
	Score      int
	TitleSpans []Span
	TextSpans  []Span
}

// Terms splits a query into lowercase search terms.
func Terms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			terms = append(terms, f)
		}
	}
	return terms
}

// Search scans docs for the query terms and returns matching notes,
// best score first. An empty query matches nothing.
func Search(docs []Document, query string) []Result {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	ac := builder.Build(terms)

	var results []Result
	for _, doc := range docs {
		titleSpans := scan(ac, doc.Title)
		textSpans := scan(ac, doc.Text)
		if len(titleSpans) == 0 && len(textSpans) == 0 {
			continue
		}
		results = append(results, Result{
			ID:         doc.ID,
			Score:      titleWeight*len(titleSpans) + len(textSpans),
			TitleSpans: titleSpans,
			TextSpans:  textSpans,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func scan(ac ahocorasick.AhoCorasick, text string) []Span {
	if text == "" {
		return nil
	}
	matches := ac.FindAll(text)
	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, Span{Start: m.Start(), End: m.End()})
	}
	return spans
}

// Snippet returns a short window of text around the first matched span,
// with ellipses where the window cuts the text.
func Snippet(text string, spans []Span, radius int) string {
	if len(spans) == 0 {
		if len(text) <= 2*radius {
			return text
		}
		return text[:2*radius] + "..."
	}

	start := spans[0].Start - radius
	if start < 0 {
		start = 0
	}
	end := spans[0].End + radius
	if end > len(text) {
		end = len(text)
	}

	out := text[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out = out + "..."
	}
	return out
}

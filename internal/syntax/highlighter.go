// Package syntax produces per-line highlight spans for documents using
// tree-sitter grammars. Parsing is synchronous and keyed by document path.
package syntax

import (
	"context"
	"math"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/notepadmm/internal/config"
	"github.com/kobzarvs/notepadmm/internal/logger"
)

// Span covers rune columns [StartCol, EndCol) on one line. EndCol is
// math.MaxInt32 when the capture continues onto the next line.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

type grammar struct {
	parser *sitter.Parser
	query  *sitter.Query
}

type parsed struct {
	tree       *sitter.Tree
	source     []byte
	lineStarts []int
	tick       uint64
}

type Highlighter struct {
	langs    config.Languages
	grammars map[string]*grammar
	docs     map[string]*parsed
	mu       sync.RWMutex
}

func New(langs config.Languages) *Highlighter {
	h := &Highlighter{
		langs:    langs,
		grammars: make(map[string]*grammar),
		docs:     make(map[string]*parsed),
	}
	for _, l := range []struct {
		name  string
		lang  *sitter.Language
		query string
	}{
		{"go", golang.GetLanguage(), goHighlightQuery},
		{"yaml", yaml.GetLanguage(), yamlHighlightQuery},
		{"toml", toml.GetLanguage(), tomlHighlightQuery},
		{"bash", bash.GetLanguage(), bashHighlightQuery},
	} {
		query, err := sitter.NewQuery([]byte(l.query), l.lang)
		if err != nil {
			logger.Warn("highlight query rejected", "language", l.name, "error", err)
			continue
		}
		p := sitter.NewParser()
		p.SetLanguage(l.lang)
		h.grammars[l.name] = &grammar{parser: p, query: query}
	}
	return h
}

// Language returns the grammar name used for path, or "" when the path is
// not highlighted.
func (h *Highlighter) Language(path string) string {
	lang := h.langs.Match(path)
	if lang == nil {
		return ""
	}
	if _, ok := h.grammars[lang.Name]; !ok {
		return ""
	}
	return lang.Name
}

// Current reports whether path was last parsed at tick.
func (h *Highlighter) Current(path string, tick uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.docs[path]
	return ok && p.tick == tick
}

// Parse reparses text for path and remembers tick. It reports false when
// no grammar matches the path.
func (h *Highlighter) Parse(path, text string, tick uint64) bool {
	name := h.Language(path)
	if name == "" {
		return false
	}
	g := h.grammars[name]
	source := []byte(text)
	tree, err := g.parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		logger.Warn("parse failed", "path", path, "error", err)
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.docs[path]; ok {
		old.tree.Close()
	}
	h.docs[path] = &parsed{
		tree:       tree,
		source:     source,
		lineStarts: lineStarts(source),
		tick:       tick,
	}
	return true
}

// Forget drops the parse tree kept for path.
func (h *Highlighter) Forget(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.docs[path]; ok {
		p.tree.Close()
		delete(h.docs, path)
	}
}

// Close releases every tree, parser and query.
func (h *Highlighter) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for path, p := range h.docs {
		p.tree.Close()
		delete(h.docs, path)
	}
	for name, g := range h.grammars {
		g.query.Close()
		g.parser.Close()
		delete(h.grammars, name)
	}
}

// Highlights returns spans for lines startLine..endLine inclusive, keyed by
// line index.
func (h *Highlighter) Highlights(path string, startLine, endLine int) map[int][]Span {
	if startLine < 0 || endLine < startLine {
		return nil
	}
	name := h.Language(path)
	if name == "" {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.docs[path]
	if !ok {
		return nil
	}
	return queryHighlights(h.grammars[name].query, p, startLine, endLine)
}

func queryHighlights(query *sitter.Query, p *parsed, startLine, endLine int) map[int][]Span {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, p.tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, p.source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			startRow, endRow := int(start.Row), int(end.Row)
			for row := max(startRow, startLine); row <= min(endRow, endLine); row++ {
				startCol := 0
				endCol := math.MaxInt32
				if row == startRow {
					startCol = p.runeColumn(row, int(start.Column))
				}
				if row == endRow {
					endCol = p.runeColumn(row, int(end.Column))
				}
				if startCol >= endCol {
					continue
				}
				out[row] = append(out[row], Span{StartCol: startCol, EndCol: endCol, Kind: kind})
			}
		}
	}
	return out
}

// runeColumn converts a tree-sitter byte column on row into a rune column.
func (p *parsed) runeColumn(row, byteCol int) int {
	if row >= len(p.lineStarts) {
		return byteCol
	}
	start := p.lineStarts[row]
	end := min(start+byteCol, len(p.source))
	return utf8.RuneCount(p.source[start:end])
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

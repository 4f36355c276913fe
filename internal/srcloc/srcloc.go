// Package srcloc interns source file paths into shared *File pointers and
// carries optional line/column spans through every later compiler stage.
//
// Every constructor in awst/mir/teal accepts a *Location that may be nil
// (the node's provenance is unknown) and, when present, may have any of
// its four position fields unset (represented by -1, matching the rest of
// this codebase's preference for zero-value-friendly sentinels over
// pointer-to-int fields).
package srcloc

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Unset marks an optional line/column field as absent.
const Unset = -1

// File is an interned source file. Two Files are the same file iff they
// are the same pointer - the Table hands out one File per path for as
// long as that path stays in its LRU cache; a path interned again after
// eviction gets a new File.
type File struct {
	Path string
}

// Location is a span within a source File. Every field but File may be
// Unset; File itself may be nil when a node was synthesized without
// provenance (e.g. a dummy value substituted at a CodeError site).
type Location struct {
	File      *File
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// String renders a human-readable "path:line:col" form used in diagnostic
// messages, degrading gracefully as fields go missing.
func (l *Location) String() string {
	if l == nil || l.File == nil {
		return "<unknown>"
	}
	if l.Line == Unset {
		return l.File.Path
	}
	if l.Column == Unset {
		return l.File.Path + ":" + itoa(l.Line)
	}
	return l.File.Path + ":" + itoa(l.Line) + ":" + itoa(l.Column)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Table interns file paths into *File handles so downstream nodes carry a
// pointer rather than a copied string, and structural-equality checks on
// locations compare pointers. Backed by an LRU so a long-running
// process (e.g. an embedding language-server loop) that repeatedly
// compiles the same handful of files does not grow this table unbounded
// across many fresh compilations, matching the "diagnostic context as
// ambient state, fresh per invocation" design constraint in the spec.
type Table struct {
	cache *lru.Cache[string, *File]
}

// DefaultCapacity bounds the number of distinct files interned per
// compilation's file table before the least-recently-used entry is
// evicted and re-created on next use.
const DefaultCapacity = 4096

// NewTable constructs an empty file table.
func NewTable() *Table {
	c, err := lru.New[string, *File](DefaultCapacity)
	if err != nil {
		// Only returns an error for a non-positive capacity, which
		// DefaultCapacity never is.
		panic(err)
	}
	return &Table{cache: c}
}

// Intern returns the File for path, creating and caching it on first use.
func (t *Table) Intern(path string) *File {
	if f, ok := t.cache.Get(path); ok {
		return f
	}
	f := &File{Path: path}
	t.cache.Add(path, f)
	return f
}

// At builds a fully-specified Location from a path plus all four position
// fields, interning the path.
func (t *Table) At(path string, line, col, endLine, endCol int) *Location {
	return &Location{File: t.Intern(path), Line: line, Column: col, EndLine: endLine, EndColumn: endCol}
}

// Start builds a Location pointing at the very first byte of the named
// file, used when emitting a diagnostic that has no specific location
// (spec §9: "when emitting diagnostics with no location, point at the
// file's start").
func (t *Table) Start(path string) *Location {
	return &Location{File: t.Intern(path), Line: 1, Column: 0, EndLine: Unset, EndColumn: Unset}
}

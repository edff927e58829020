// Package document implements the editor's in-memory text buffer.
//
// A Document owns its content as a rope, a cursor addressed by absolute rune
// offset, an optional selection, and a linear undo/redo event log. Line and
// column coordinates are always derived from the offset on demand, so the
// two addressing schemes cannot drift apart.
//
// Content always ends with a single '\n'. The cursor stays within
// [0, Len()-1], which means it can sit on the trailing terminator but never
// past it.
//
// A Document is not safe for concurrent use; callers serialize access.
package document

import (
	"strings"
	"unicode/utf8"

	"github.com/kobzarvs/notepadmm/internal/rope"
)

// Direction selects a caret motion for Move.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
	DocumentStart
	DocumentEnd
)

// Document is a mutable text buffer bound to a file path.
type Document struct {
	path   string
	origin Origin
	text   rope.Rope
	cursor int

	sel       Selection
	selActive bool

	log    []entry
	replay int

	dirty    int
	hasDirty bool

	changeTick uint64
}

// New returns a document for path holding text. Line endings are normalized
// to '\n' and a trailing terminator is appended when missing.
func New(path, text string) *Document {
	return &Document{
		path:   path,
		origin: OriginFile,
		text:   rope.FromString(normalize(text)),
	}
}

func normalize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

// Path returns the file path the document is bound to.
func (d *Document) Path() string { return d.path }

// Origin reports how the document's initial content was obtained.
func (d *Document) Origin() Origin { return d.origin }

// Len returns the content length in runes, trailing terminator included.
func (d *Document) Len() int { return d.text.Len() }

// Text returns the full content.
func (d *Document) Text() string { return d.text.String() }

// Cursor returns the absolute cursor offset.
func (d *Document) Cursor() int { return d.cursor }

// Caret returns the cursor as a line/column pair.
func (d *Document) Caret() Caret { return d.CaretFor(d.cursor) }

// ChangeTick increases every time the content changes.
func (d *Document) ChangeTick() uint64 { return d.changeTick }

// DirtyCount returns the number of net edits since the last save. ok is
// false when the document is considered saved.
func (d *Document) DirtyCount() (n int, ok bool) { return d.dirty, d.hasDirty }

// Modified reports whether there are unsaved edits.
func (d *Document) Modified() bool { return d.hasDirty && d.dirty > 0 }

func (d *Document) clampCursor(offset int) int {
	if offset < 0 {
		return 0
	}
	if last := d.text.Len() - 1; offset > last {
		return last
	}
	return offset
}

// MoveLeft moves the cursor one rune back and clears the selection.
func (d *Document) MoveLeft() { d.Move(Left, false) }

// MoveRight moves the cursor one rune forward and clears the selection.
func (d *Document) MoveRight() { d.Move(Right, false) }

// MoveUp moves the cursor to the previous line and clears the selection.
func (d *Document) MoveUp() { d.Move(Up, false) }

// MoveDown moves the cursor to the next line and clears the selection.
func (d *Document) MoveDown() { d.Move(Down, false) }

// Move applies a caret motion. With extend set the selection grows from the
// previous cursor position, otherwise any selection is dropped.
func (d *Document) Move(dir Direction, extend bool) {
	prev := d.cursor
	d.cursor = d.clampCursor(d.target(dir))
	d.setSelection(extend, prev)
}

func (d *Document) target(dir Direction) int {
	c := d.Caret()
	switch dir {
	case Left:
		return d.cursor - 1
	case Right:
		return d.cursor + 1
	case Up:
		if c.Line == 0 {
			return 0
		}
		return d.offsetClamped(c.Line-1, c.Column)
	case Down:
		// The virtual line after the trailing terminator is empty.
		if c.Line+1 >= d.LineCount() {
			return d.text.Len() - 1
		}
		return d.offsetClamped(c.Line+1, c.Column)
	case LineStart:
		return d.text.LineStart(c.Line)
	case LineEnd:
		return d.text.LineStart(c.Line) + d.LineLen(c.Line)
	case DocumentStart:
		return 0
	case DocumentEnd:
		return d.text.Len() - 1
	}
	return d.cursor
}

func (d *Document) offsetClamped(line, column int) int {
	if column < 0 {
		column = 0
	}
	if n := d.LineLen(line); column > n {
		column = n
	}
	return d.OffsetFor(Caret{Line: line, Column: column})
}

// SetCaret moves the cursor to line/column. The column is clamped to the
// line's length; a line past the end resolves to the trailing terminator.
func (d *Document) SetCaret(line, column int, extend bool) {
	prev := d.cursor
	if line < 0 {
		line = 0
	}
	d.cursor = d.clampCursor(d.offsetClamped(line, column))
	d.setSelection(extend, prev)
}

// SetOffset moves the cursor to an absolute offset, clamped to the content.
func (d *Document) SetOffset(offset int, extend bool) {
	prev := d.cursor
	d.cursor = d.clampCursor(offset)
	d.setSelection(extend, prev)
}

// InsertChar inserts c at the cursor, replacing the selection if any.
func (d *Document) InsertChar(c rune) bool {
	d.deleteSelection()
	d.commit(Event{Kind: EventInsertChar, Char: c, Offset: d.cursor})
	return true
}

// InsertString inserts s at the cursor, replacing the selection if any.
// "\r\n" sequences are stored as '\n'.
func (d *Document) InsertString(s string) bool {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s == "" {
		return false
	}
	d.deleteSelection()
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		d.commit(Event{Kind: EventInsertChar, Char: r, Offset: d.cursor})
		return true
	}
	d.commit(Event{Kind: EventInsertRange, Text: s, Offset: d.cursor})
	return true
}

// Backspace removes the selection, or the rune before the cursor.
// It reports false when there was nothing to remove.
func (d *Document) Backspace() bool {
	if d.deleteSelection() {
		return true
	}
	if d.cursor == 0 {
		return false
	}
	r, _ := d.text.RuneAt(d.cursor - 1)
	d.commit(Event{Kind: EventDeleteChar, Char: r, Offset: d.cursor - 1})
	return true
}

// Delete removes the selection, or the rune under the cursor. The trailing
// terminator is never removed.
func (d *Document) Delete() bool {
	if d.deleteSelection() {
		return true
	}
	if d.cursor >= d.text.Len()-1 {
		return false
	}
	r, _ := d.text.RuneAt(d.cursor)
	d.commit(Event{Kind: EventDeleteChar, Char: r, Offset: d.cursor})
	return true
}

// DeleteSelection removes the selected text as a single event.
func (d *Document) DeleteSelection() bool {
	return d.deleteSelection()
}

func (d *Document) deleteSelection() bool {
	start, end, ok := d.SelectionSpan()
	if !ok {
		d.selActive = false
		return false
	}
	d.commit(Event{Kind: EventDeleteRange, Text: d.text.Slice(start, end), Offset: start})
	return true
}

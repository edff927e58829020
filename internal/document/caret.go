package document

import "fmt"

// Caret is a cursor position expressed as a zero-based line and column.
// It is always derived from an absolute offset and never stored.
type Caret struct {
	Line   int
	Column int
}

func (c Caret) String() string {
	return fmt.Sprintf("%d:%d", c.Line, c.Column)
}

// CaretFor translates an absolute offset into a line/column pair. Offsets at
// or beyond the content length clamp to the end of the last line; negative
// offsets clamp to the start of the document.
func (d *Document) CaretFor(offset int) Caret {
	if offset < 0 {
		offset = 0
	}
	if last := d.text.Len() - 1; offset > last {
		offset = last
	}
	line := d.text.LineOf(offset)
	return Caret{Line: line, Column: offset - d.text.LineStart(line)}
}

// OffsetFor translates a caret into an absolute offset. A caret naming a
// line that does not exist resolves to the trailing terminator. The column is
// not validated; callers clamp it with LineLen when needed.
func (d *Document) OffsetFor(c Caret) int {
	if c.Line < 0 || c.Line >= d.LineCount() {
		return d.text.Len() - 1
	}
	return d.text.LineStart(c.Line) + c.Column
}

// LineLen returns the number of runes on line, excluding its terminator.
func (d *Document) LineLen(line int) int {
	if line < 0 || line >= d.LineCount() {
		return 0
	}
	return d.text.LineStart(line+1) - d.text.LineStart(line) - 1
}

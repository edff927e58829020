package document

import "iter"

// LineCount returns the number of lines. Every line, including the last,
// ends with a terminator, so an empty document has one empty line.
func (d *Document) LineCount() int {
	return d.text.Newlines()
}

// Line returns line i without its terminator, or "" when out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= d.LineCount() {
		return ""
	}
	start := d.text.LineStart(i)
	return d.text.Slice(start, start+d.LineLen(i))
}

// Lines yields each line index and text without terminators. The sequence
// is lazy and can be ranged over any number of times.
func (d *Document) Lines() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := 0; i < d.LineCount(); i++ {
			if !yield(i, d.Line(i)) {
				return
			}
		}
	}
}

// LineSelection returns the selected column range on line, if the
// selection touches it. end may equal LineLen(line)+1 when the terminator
// is selected.
func (d *Document) LineSelection(line int) (start, end int, ok bool) {
	s, e, ok := d.SelectionSpan()
	if !ok || line < 0 || line >= d.LineCount() {
		return 0, 0, false
	}
	ls := d.text.LineStart(line)
	le := ls + d.LineLen(line) + 1
	if e <= ls || s >= le {
		return 0, 0, false
	}
	return max(s, ls) - ls, min(e, le) - ls, true
}

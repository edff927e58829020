package document

// Selection is an unordered pair of offsets. Anchor stays put while Head
// follows the cursor.
type Selection struct {
	Anchor int
	Head   int
}

// Span returns the selection ordered as (min, max).
func (s Selection) Span() (int, int) {
	if s.Anchor <= s.Head {
		return s.Anchor, s.Head
	}
	return s.Head, s.Anchor
}

// Selection returns the raw selection and whether one is active.
func (d *Document) Selection() (Selection, bool) {
	return d.sel, d.selActive
}

// SelectionSpan returns the canonicalized selection clamped to the editable
// range. An empty span counts as no selection.
func (d *Document) SelectionSpan() (start, end int, ok bool) {
	if !d.selActive {
		return 0, 0, false
	}
	start, end = d.sel.Span()
	start = d.clampCursor(start)
	end = d.clampCursor(end)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// SelectedText returns the text covered by the selection.
func (d *Document) SelectedText() (string, bool) {
	start, end, ok := d.SelectionSpan()
	if !ok {
		return "", false
	}
	return d.text.Slice(start, end), true
}

// Select sets the selection explicitly and moves the cursor to head.
func (d *Document) Select(anchor, head int) {
	d.sel = Selection{Anchor: d.clampCursor(anchor), Head: d.clampCursor(head)}
	d.selActive = true
	d.cursor = d.sel.Head
}

// SelectAll selects everything except the trailing terminator.
func (d *Document) SelectAll() {
	d.Select(0, d.text.Len()-1)
}

// ClearSelection drops the selection without moving the cursor.
func (d *Document) ClearSelection() {
	d.selActive = false
}

// setSelection updates the selection after the cursor moved from prev.
// Extending onto the current head collapses the selection.
func (d *Document) setSelection(extend bool, prev int) {
	switch {
	case !extend:
		d.selActive = false
	case d.selActive && d.sel.Head == d.cursor:
		d.selActive = false
	case !d.selActive:
		d.sel = Selection{Anchor: prev, Head: d.cursor}
		d.selActive = true
	default:
		d.sel.Head = d.cursor
	}
}

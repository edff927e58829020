package document

import (
	"golang.org/x/text/cases"
)

// matcher compares runes, optionally under Unicode case folding.
type matcher struct {
	needle []rune
	fold   bool
	caser  cases.Caser
	folded map[rune]string
}

func newMatcher(needle string, caseSensitive bool) *matcher {
	m := &matcher{needle: []rune(needle), fold: !caseSensitive}
	if m.fold {
		m.caser = cases.Fold()
		m.folded = make(map[rune]string)
	}
	return m
}

func (m *matcher) foldRune(r rune) string {
	if s, ok := m.folded[r]; ok {
		return s
	}
	s := m.caser.String(string(r))
	m.folded[r] = s
	return s
}

func (m *matcher) equal(a, b rune) bool {
	if a == b {
		return true
	}
	return m.fold && m.foldRune(a) == m.foldRune(b)
}

func (m *matcher) matchAt(hay []rune, p int) bool {
	for i, r := range m.needle {
		if !m.equal(hay[p+i], r) {
			return false
		}
	}
	return true
}

// Find searches forward from start for needle. When nothing is found before
// the end and wrap is set, the search restarts at offset 0 and stops at start.
// On success the match is selected and its end offset returned. Matches
// that would include the trailing terminator are not reported.
func (d *Document) Find(start int, needle string, wrap, caseSensitive bool) (int, bool) {
	if needle == "" {
		return 0, false
	}
	m := newMatcher(needle, caseSensitive)
	hay := d.searchable()
	n := len(m.needle)
	start = clamp(start, 0, len(hay))

	for p := start; p+n <= len(hay); p++ {
		if m.matchAt(hay, p) {
			d.selectMatch(p, p+n)
			return p + n, true
		}
	}
	if wrap {
		for p := 0; p < start && p+n <= len(hay); p++ {
			if m.matchAt(hay, p) {
				d.selectMatch(p, p+n)
				return p + n, true
			}
		}
	}
	return 0, false
}

// FindBackward searches toward offset 0 for a match starting before start.
// When wrap is set it continues from the end of the document down to start.
// On success the match is selected and its start offset returned, so the
// result can seed the next backward search.
func (d *Document) FindBackward(start int, needle string, wrap, caseSensitive bool) (int, bool) {
	if needle == "" {
		return 0, false
	}
	m := newMatcher(needle, caseSensitive)
	hay := d.searchable()
	n := len(m.needle)
	if n > len(hay) {
		return 0, false
	}
	start = clamp(start, 0, len(hay))

	for p := min(start-1, len(hay)-n); p >= 0; p-- {
		if m.matchAt(hay, p) {
			d.selectMatch(p, p+n)
			return p, true
		}
	}
	if wrap {
		for p := len(hay) - n; p >= start; p-- {
			if m.matchAt(hay, p) {
				d.selectMatch(p, p+n)
				return p, true
			}
		}
	}
	return 0, false
}

// searchable is the content without the trailing terminator. The terminator
// cannot be selected, so a match may not end on it.
func (d *Document) searchable() []rune {
	hay := d.text.Runes()
	return hay[:len(hay)-1]
}

func (d *Document) selectMatch(start, end int) {
	d.sel = Selection{Anchor: start, Head: end}
	d.selActive = true
	d.cursor = d.clampCursor(end)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

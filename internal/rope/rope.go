// Package rope provides an immutable rope of runes with an aggregated
// newline index.
//
// A rope is a binary tree whose leaves hold short rune chunks and whose
// internal nodes cache the rune and newline counts of their subtrees. That
// gives logarithmic insert, delete and slice, and logarithmic translation
// between a line index and the number of runes that precede it.
//
// Operations never modify a rope in place; they return a new value that
// shares unchanged subtrees with the rope it came from:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")     // "hello, world"
//	r = r.Delete(0, 7)       // "world"
//	start := r.LineStart(0)  // 0
package rope

import (
	"math/bits"
	"strings"
	"unicode/utf8"
)

const (
	// maxLeaf is the largest number of runes kept in a single leaf.
	maxLeaf = 512

	// depthSlack is added to the ideal tree depth before a rebuild is forced.
	depthSlack = 8
)

// Rope is an immutable sequence of runes.
// The zero value is an empty rope ready to use.
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() Rope {
	return Rope{}
}

// FromString builds a balanced rope holding s.
func FromString(s string) Rope {
	if s == "" {
		return Rope{}
	}
	return Rope{root: build([]rune(s))}
}

// Len returns the number of runes in the rope.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.length
}

// Newlines returns the number of '\n' runes in the rope.
func (r Rope) Newlines() int {
	if r.root == nil {
		return 0
	}
	return r.root.newlines
}

// Depth reports the height of the tree. A single leaf has depth 0.
func (r Rope) Depth() int {
	if r.root == nil {
		return 0
	}
	return r.root.depth
}

// String returns the full text. Use sparingly on large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.root.length)
	r.root.each(func(rs []rune) {
		for _, c := range rs {
			sb.WriteRune(c)
		}
	})
	return sb.String()
}

// Runes returns a copy of the full content as a rune slice.
func (r Rope) Runes() []rune {
	out := make([]rune, 0, r.Len())
	if r.root != nil {
		r.root.each(func(rs []rune) { out = append(out, rs...) })
	}
	return out
}

// Slice returns the text in the rune range [start, end).
// The range is clamped to the rope bounds.
func (r Rope) Slice(start, end int) string {
	start, end = r.clampRange(start, end)
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.slice(start, end, func(rs []rune) {
		for _, c := range rs {
			sb.WriteRune(c)
		}
	})
	return sb.String()
}

// RuneAt returns the rune at offset, or false when offset is out of range.
func (r Rope) RuneAt(offset int) (rune, bool) {
	if r.root == nil || offset < 0 || offset >= r.root.length {
		return 0, false
	}
	n := r.root
	for n.leaf == nil {
		if offset < n.left.length {
			n = n.left
		} else {
			offset -= n.left.length
			n = n.right
		}
	}
	return n.leaf[offset], true
}

// Insert returns a rope with s inserted before the rune at offset.
// Offsets past the end append.
func (r Rope) Insert(offset int, s string) Rope {
	if s == "" {
		return r
	}
	if offset < 0 {
		offset = 0
	}
	if offset > r.Len() {
		offset = r.Len()
	}
	mid := build([]rune(s))
	if r.root == nil {
		return Rope{root: mid}
	}
	left, right := split(r.root, offset)
	return Rope{root: concat(concat(left, mid), right)}.balanced()
}

// Delete returns a rope without the runes in [start, end).
func (r Rope) Delete(start, end int) Rope {
	start, end = r.clampRange(start, end)
	if start >= end {
		return r
	}
	left, rest := split(r.root, start)
	_, right := split(rest, end-start)
	return Rope{root: concat(left, right)}.balanced()
}

// LineStart returns the offset of the first rune of line (0-based), that is
// the number of runes preceding it. Lines past the last newline yield Len.
func (r Rope) LineStart(line int) int {
	if line <= 0 || r.root == nil {
		return 0
	}
	if line > r.root.newlines {
		return r.root.length
	}
	return r.root.afterNewline(line)
}

// LineOf returns the index of the line containing offset, which equals the
// number of newlines in [0, offset).
func (r Rope) LineOf(offset int) int {
	if r.root == nil || offset <= 0 {
		return 0
	}
	if offset >= r.root.length {
		return r.root.newlines
	}
	return r.root.newlinesBefore(offset)
}

func (r Rope) clampRange(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	return start, end
}

// balanced rebuilds the tree when it has grown much deeper than a perfectly
// balanced tree over the same leaves would be.
func (r Rope) balanced() Rope {
	if r.root == nil {
		return r
	}
	if r.root.length == 0 {
		return Rope{}
	}
	ideal := bits.Len(uint(r.root.length/maxLeaf + 1))
	if r.root.depth <= 2*ideal+depthSlack {
		return r
	}
	var leaves []*node
	var pending []rune
	r.root.each(func(rs []rune) {
		if len(pending)+len(rs) > maxLeaf && len(pending) > 0 {
			leaves = append(leaves, newLeaf(pending))
			pending = nil
		}
		pending = append(pending, rs...)
	})
	if len(pending) > 0 {
		leaves = append(leaves, newLeaf(pending))
	}
	return Rope{root: join(leaves)}
}

// ByteLen returns the UTF-8 encoded size of the rope.
func (r Rope) ByteLen() int {
	total := 0
	if r.root != nil {
		r.root.each(func(rs []rune) {
			for _, c := range rs {
				total += utf8.RuneLen(c)
			}
		})
	}
	return total
}

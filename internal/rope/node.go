package rope

// node is either a leaf (leaf != nil) or an internal node with two children.
// Leaf slices are never written after construction, so subtrees can be
// shared freely between rope versions.
type node struct {
	left, right *node
	leaf        []rune
	length      int
	newlines    int
	depth       int
}

func newLeaf(rs []rune) *node {
	n := &node{leaf: rs, length: len(rs)}
	if n.leaf == nil {
		n.leaf = []rune{}
	}
	for _, c := range rs {
		if c == '\n' {
			n.newlines++
		}
	}
	return n
}

func newInternal(left, right *node) *node {
	depth := left.depth
	if right.depth > depth {
		depth = right.depth
	}
	return &node{
		left:     left,
		right:    right,
		length:   left.length + right.length,
		newlines: left.newlines + right.newlines,
		depth:    depth + 1,
	}
}

// build creates a balanced tree over rs, chunked into leaves.
func build(rs []rune) *node {
	if len(rs) <= maxLeaf {
		return newLeaf(rs)
	}
	leaves := make([]*node, 0, len(rs)/maxLeaf+1)
	for i := 0; i < len(rs); i += maxLeaf {
		end := i + maxLeaf
		if end > len(rs) {
			end = len(rs)
		}
		leaves = append(leaves, newLeaf(rs[i:end]))
	}
	return join(leaves)
}

// join builds a balanced tree bottom-up from an ordered list of leaves.
func join(nodes []*node) *node {
	if len(nodes) == 0 {
		return newLeaf(nil)
	}
	for len(nodes) > 1 {
		parents := make([]*node, 0, (len(nodes)+1)/2)
		for i := 0; i < len(nodes); i += 2 {
			if i+1 == len(nodes) {
				parents = append(parents, nodes[i])
				continue
			}
			parents = append(parents, newInternal(nodes[i], nodes[i+1]))
		}
		nodes = parents
	}
	return nodes[0]
}

func mergeLeaves(a, b *node) *node {
	rs := make([]rune, 0, a.length+b.length)
	rs = append(rs, a.leaf...)
	rs = append(rs, b.leaf...)
	return newLeaf(rs)
}

// concat joins two subtrees, coalescing small adjacent leaves so that
// repeated single-rune edits do not fragment the tree.
func concat(a, b *node) *node {
	switch {
	case a == nil || a.length == 0:
		return b
	case b == nil || b.length == 0:
		return a
	}
	if a.leaf != nil && b.leaf != nil && a.length+b.length <= maxLeaf {
		return mergeLeaves(a, b)
	}
	if a.leaf == nil && b.leaf != nil && a.right.leaf != nil && a.right.length+b.length <= maxLeaf {
		return newInternal(a.left, mergeLeaves(a.right, b))
	}
	if b.leaf == nil && a.leaf != nil && b.left.leaf != nil && a.length+b.left.length <= maxLeaf {
		return newInternal(mergeLeaves(a, b.left), b.right)
	}
	return newInternal(a, b)
}

// split divides n at offset into [0, offset) and [offset, length).
func split(n *node, offset int) (*node, *node) {
	if offset <= 0 {
		return nil, n
	}
	if offset >= n.length {
		return n, nil
	}
	if n.leaf != nil {
		return newLeaf(n.leaf[:offset:offset]), newLeaf(n.leaf[offset:])
	}
	switch {
	case offset < n.left.length:
		ll, lr := split(n.left, offset)
		return ll, concat(lr, n.right)
	case offset > n.left.length:
		rl, rr := split(n.right, offset-n.left.length)
		return concat(n.left, rl), rr
	default:
		return n.left, n.right
	}
}

func (n *node) each(fn func([]rune)) {
	if n.leaf != nil {
		if len(n.leaf) > 0 {
			fn(n.leaf)
		}
		return
	}
	n.left.each(fn)
	n.right.each(fn)
}

func (n *node) slice(start, end int, fn func([]rune)) {
	if start >= end {
		return
	}
	if n.leaf != nil {
		fn(n.leaf[start:end])
		return
	}
	ll := n.left.length
	if start < ll {
		e := end
		if e > ll {
			e = ll
		}
		n.left.slice(start, e, fn)
	}
	if end > ll {
		s := start - ll
		if s < 0 {
			s = 0
		}
		n.right.slice(s, end-ll, fn)
	}
}

// afterNewline returns the offset just past the k-th newline (k >= 1).
func (n *node) afterNewline(k int) int {
	base := 0
	for n.leaf == nil {
		if n.left.newlines >= k {
			n = n.left
			continue
		}
		k -= n.left.newlines
		base += n.left.length
		n = n.right
	}
	for i, c := range n.leaf {
		if c != '\n' {
			continue
		}
		k--
		if k == 0 {
			return base + i + 1
		}
	}
	return base + n.length
}

// newlinesBefore counts newlines in [0, offset).
func (n *node) newlinesBefore(offset int) int {
	count := 0
	for n.leaf == nil {
		if offset <= n.left.length {
			n = n.left
			continue
		}
		count += n.left.newlines
		offset -= n.left.length
		n = n.right
	}
	for _, c := range n.leaf[:offset] {
		if c == '\n' {
			count++
		}
	}
	return count
}

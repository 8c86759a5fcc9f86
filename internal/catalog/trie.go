package catalog

// Trie is a generic ordered-key multi-map: a prefix tree over token
// sequences where each node records which symbols the token path denotes
// and, per symbol, every vocabulary entry inserted for it. Repeated inserts
// of the same (path, symbol) pair accumulate entries rather than replacing
// them, so entry counts double as reference counts.
type Trie[S comparable, V any] struct {
	children map[string]*Trie[S, V]
	entries  map[S][]V
	order    []S // symbol insertion order, for deterministic results
}

// NewTrie creates an empty trie.
func NewTrie[S comparable, V any]() *Trie[S, V] {
	return &Trie[S, V]{}
}

// Insert walks (and extends) one child per token, then appends entry to the
// leaf's list for sym.
func (t *Trie[S, V]) Insert(key []string, sym S, entry V) {
	node := t
	for _, tok := range key {
		if node.children == nil {
			node.children = make(map[string]*Trie[S, V])
		}
		child, ok := node.children[tok]
		if !ok {
			child = NewTrie[S, V]()
			node.children[tok] = child
		}
		node = child
	}
	if node.entries == nil {
		node.entries = make(map[S][]V)
	}
	if _, seen := node.entries[sym]; !seen {
		node.order = append(node.order, sym)
	}
	node.entries[sym] = append(node.entries[sym], entry)
}

// Lookup walks the full path and returns the leaf's symbol-to-entries
// mapping. A path that does not fully exist yields an empty map; there is
// no partial-prefix fallback at this layer.
func (t *Trie[S, V]) Lookup(key []string) map[S][]V {
	node, ok := t.walk(key)
	if !ok || node.entries == nil {
		return map[S][]V{}
	}
	return node.entries
}

// Contains reports whether sym is recorded at this node, independent of
// descendants.
func (t *Trie[S, V]) Contains(sym S) bool {
	_, ok := t.entries[sym]
	return ok
}

// Symbols returns the symbols recorded at this node in insertion order.
func (t *Trie[S, V]) Symbols() []S {
	out := make([]S, len(t.order))
	copy(out, t.order)
	return out
}

// Entries returns the entries recorded at this node for sym, in insertion
// order.
func (t *Trie[S, V]) Entries(sym S) []V {
	return t.entries[sym]
}

// Child returns the child for one token.
func (t *Trie[S, V]) Child(tok string) (*Trie[S, V], bool) {
	child, ok := t.children[tok]
	return child, ok
}

// walk follows key and returns the reached node.
func (t *Trie[S, V]) walk(key []string) (*Trie[S, V], bool) {
	node := t
	for _, tok := range key {
		child, ok := node.children[tok]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

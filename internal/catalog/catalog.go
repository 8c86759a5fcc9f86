package catalog

// Verbalization is one recorded surface phrase denoting a symbol.
type Verbalization interface {
	// Phrase returns the surface form, e.g. "natural number".
	Phrase() string
}

// Catalog is a language-scoped vocabulary index: a trie keyed by stemmed
// word sequences. It is built once and read-only thereafter.
type Catalog[S comparable, V Verbalization] struct {
	// Language is the BCP 47 tag the catalog's entries are stemmed with.
	Language string

	trie *Trie[S, V]
}

// New creates an empty catalog for the given language.
func New[S comparable, V Verbalization](lang string) *Catalog[S, V] {
	return &Catalog[S, V]{
		Language: lang,
		trie:     NewTrie[S, V](),
	}
}

// Add records that entry's phrase denotes sym. The phrase is stemmed with
// the catalog's language to form the trie key.
func (c *Catalog[S, V]) Add(sym S, entry V) {
	c.trie.Insert(StemKey(entry.Phrase(), c.Language), sym, entry)
}

// Trie exposes the underlying index, mainly for tests and statistics.
func (c *Catalog[S, V]) Trie() *Trie[S, V] { return c.trie }

// Option is one (symbol, entry) candidate of a match.
type Option[S comparable, V Verbalization] struct {
	Symbol S
	Entry  V
}

// Match is the result of a scan: the half-open byte window [Start, End) of
// the matched text and the candidate options in catalog insertion order.
type Match[S comparable, V Verbalization] struct {
	Start   int
	End     int
	Options []Option[S, V]
}

// IgnoreSet suppresses otherwise-valid matches during one scan.
//
// A window whose stemmed form is in Stems, or whose literal surface text is
// in Words, contributes no candidates at all; symbols in Symbols are
// dropped individually from a window's candidate list. Either way the scan
// continues past suppressed windows instead of returning them.
type IgnoreSet[S comparable] struct {
	Stems   map[string]bool
	Words   map[string]bool
	Symbols map[S]bool
}

// FirstMatch scans text for the leftmost-longest occurrence of any
// catalog phrase, honoring the ignore sets. It reports ok=false when no
// start position yields a viable non-empty match.
func (c *Catalog[S, V]) FirstMatch(text string, ignore IgnoreSet[S]) (Match[S, V], bool) {
	words := Tokenize(text)

	for i := range words {
		var (
			found   bool
			bestEnd int
			bestOpt []Option[S, V]
		)
		node := c.trie
		// Extend the window greedily; the deepest viable node wins.
		for j := i; j < len(words); j++ {
			child, ok := node.Child(Stem(words[j].Text, c.Language))
			if !ok {
				break
			}
			node = child
			opts := c.viableOptions(node, text[words[i].Start:words[j].End], ignore)
			if len(opts) > 0 {
				found = true
				bestEnd = words[j].End
				bestOpt = opts
			}
		}
		if found {
			return Match[S, V]{Start: words[i].Start, End: bestEnd, Options: bestOpt}, true
		}
	}
	return Match[S, V]{}, false
}

// viableOptions builds the candidate list for a node, applying the ignore
// sets. Stem and word ignoring discard the whole node's candidate set;
// symbol ignoring removes only the offending symbols.
func (c *Catalog[S, V]) viableOptions(node *Trie[S, V], surface string, ignore IgnoreSet[S]) []Option[S, V] {
	syms := node.Symbols()
	if len(syms) == 0 {
		return nil
	}
	if ignore.Stems[StemPhrase(surface, c.Language)] || ignore.Words[surface] {
		return nil
	}
	var opts []Option[S, V]
	for _, sym := range syms {
		if ignore.Symbols[sym] {
			continue
		}
		for _, entry := range node.Entries(sym) {
			opts = append(opts, Option[S, V]{Symbol: sym, Entry: entry})
		}
	}
	return opts
}

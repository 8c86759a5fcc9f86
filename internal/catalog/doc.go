// Package catalog implements the stemmed-token matching engine: a generic
// ordered-key trie multi-map and a language-scoped Catalog built on top of
// it that scans free text for the next occurrence of any known vocabulary
// phrase.
//
// Matching is deterministic and leftmost-longest: the result is the match
// with the smallest start offset, and among viable windows at that start
// the longest one wins. Per-scan ignore sets suppress matches by stem, by
// literal surface word, or by candidate symbol.
package catalog

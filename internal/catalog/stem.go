package catalog

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// snowballLanguages maps supported language bases to snowball names. The
// matcher falls back to English for anything else.
var snowballLanguages = []struct {
	tag  language.Tag
	name string
}{
	{language.English, "english"},
	{language.French, "french"},
	{language.Spanish, "spanish"},
	{language.Russian, "russian"},
	{language.Swedish, "swedish"},
	{language.Norwegian, "norwegian"},
	{language.Hungarian, "hungarian"},
}

var stemMatcher = newStemMatcher()

func newStemMatcher() language.Matcher {
	tags := make([]language.Tag, len(snowballLanguages))
	for i, l := range snowballLanguages {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}

// snowballName resolves a BCP 47 language string ("en", "de-AT", ...) to a
// snowball algorithm name, defaulting to English.
func snowballName(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return "english"
	}
	_, index, conf := stemMatcher.Match(tag)
	if conf == language.No {
		return "english"
	}
	return snowballLanguages[index].name
}

// Stem normalizes one word to its canonical root form for the given
// language: Unicode NFC, lowercasing, then snowball stemming. Words the
// stemmer rejects are kept in normalized form.
func Stem(word, lang string) string {
	w := strings.ToLower(norm.NFC.String(word))
	stemmed, err := snowball.Stem(w, snowballName(lang), false)
	if err != nil || stemmed == "" {
		return w
	}
	return stemmed
}

// Word is one tokenized word together with its byte span in the source
// text.
type Word struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits text into words in left-to-right order. A word is a
// maximal run of letters, digits or marks; everything else separates.
func Tokenize(text string) []Word {
	var words []Word
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, Word{Text: text[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, Word{Text: text[start:], Start: start, End: len(text)})
	}
	return words
}

// StemWords tokenizes text and stems every word, preserving spans.
func StemWords(text, lang string) []Word {
	words := Tokenize(text)
	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = Word{Text: Stem(w.Text, lang), Start: w.Start, End: w.End}
	}
	return out
}

// StemPhrase returns the stemmed form of a whole phrase: the stems of its
// words joined by single spaces. This is the key form used by ignore sets.
func StemPhrase(text, lang string) string {
	words := StemWords(text, lang)
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// StemKey returns the trie key for a phrase: its stemmed words in order.
func StemKey(text, lang string) []string {
	words := StemWords(text, lang)
	key := make([]string, len(words))
	for i, w := range words {
		key[i] = w.Text
	}
	return key
}

// Package textnorm turns raw sentences and glosses into comparable bags of
// context tokens: tokenized, case-folded, stopword-filtered and lemmatized.
package textnorm

import (
	"sort"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/analysis"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/analysis/token/lowercase"
	"github.com/blevesearch/bleve/analysis/token/porter"
	unicodetok "github.com/blevesearch/bleve/analysis/tokenizer/unicode"
	"golang.org/x/text/unicode/norm"
)

// Lemmatizer maps an inflected, lower-cased word to its base form. Implementations
// return the input unchanged when they have no better answer.
type Lemmatizer interface {
	Lemma(word string) string
}

// Identity is the lemmatizer used when no lemmatizer is available.
type Identity struct{}

func (Identity) Lemma(word string) string { return word }

// Porter lemmatizes by Porter stemming. Stems are not dictionary words, but the
// same stemmer is applied to both sides of every comparison.
type Porter struct {
	stemmer *porter.PorterStemmer
}

func NewPorter() *Porter { return &Porter{stemmer: porter.NewPorterStemmer()} }

func (p *Porter) Lemma(word string) string {
	out := p.stemmer.Filter(analysis.TokenStream{&analysis.Token{Term: []byte(word)}})
	if len(out) == 0 || len(out[0].Term) == 0 {
		return word
	}
	return string(out[0].Term)
}

// Normalizer is safe for concurrent use; it holds no per-call state.
type Normalizer struct {
	tokenizer  *unicodetok.UnicodeTokenizer
	lower      *lowercase.LowerCaseFilter
	stop       analysis.TokenMap
	lemmatizer Lemmatizer
}

// New builds a normalizer. A nil lemmatizer means identity.
func New(lem Lemmatizer) *Normalizer {
	stop := analysis.NewTokenMap()
	// the embedded list is static; a load failure would leave the map empty, not broken
	_ = stop.LoadBytes(en.EnglishStopWords)
	if lem == nil {
		lem = Identity{}
	}
	return &Normalizer{
		tokenizer:  unicodetok.NewUnicodeTokenizer(),
		lower:      lowercase.NewLowerCaseFilter(),
		stop:       stop,
		lemmatizer: lem,
	}
}

// Tokens normalizes free text (a gloss, a title, a sentence) in original order.
func (n *Normalizer) Tokens(text string) []string {
	return n.normalize(text, "", "")
}

// Normalize returns the context tokens of sentence with the target word removed.
func (n *Normalizer) Normalize(sentence, target string) []string {
	t := Fold(target)
	if t == "" {
		return n.normalize(sentence, "", "")
	}
	return n.normalize(sentence, t, n.lemma(t))
}

// IsStopword reports whether a folded word is on the closed-class list.
func (n *Normalizer) IsStopword(word string) bool {
	return n.stop[word]
}

func (n *Normalizer) normalize(text, target, targetLemma string) []string {
	stream := n.lower.Filter(n.tokenizer.Tokenize([]byte(foldDiacritics(text))))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		term := string(tok.Term)
		if !keep(term) || n.stop[term] {
			continue
		}
		if target != "" && term == target {
			continue
		}
		lemma := n.lemma(term)
		if targetLemma != "" && lemma == targetLemma {
			continue
		}
		if n.stop[lemma] {
			continue
		}
		out = append(out, lemma)
	}
	return out
}

func (n *Normalizer) lemma(word string) string {
	if l := n.lemmatizer.Lemma(word); l != "" {
		return l
	}
	return word
}

// keep drops tokens shorter than two runes and tokens with no letter or digit.
func keep(term string) bool {
	runes := 0
	alnum := false
	for _, r := range term {
		runes++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum = true
		}
	}
	return runes >= 2 && alnum
}

var wordTokenizer = unicodetok.NewUnicodeTokenizer()

// ContainsWord reports whether text contains word as a whole token, ignoring
// case and diacritics. A multi-token word never matches.
func ContainsWord(text, word string) bool {
	w := Fold(word)
	if w == "" {
		return false
	}
	for _, tok := range wordTokenizer.Tokenize([]byte(text)) {
		if Fold(string(tok.Term)) == w {
			return true
		}
	}
	return false
}

// Fold lower-cases, trims and strips diacritics from a single word.
func Fold(word string) string {
	return strings.ToLower(strings.TrimSpace(foldDiacritics(word)))
}

func foldDiacritics(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFD.String(s))
}

// Set returns the distinct tokens.
func Set(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Intersect returns the sorted tokens present in both sets.
func Intersect(a, b map[string]struct{}) []string {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make([]string, 0)
	for t := range a {
		if _, ok := b[t]; ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

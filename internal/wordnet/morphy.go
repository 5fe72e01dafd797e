package wordnet

import "strings"

type substitution struct{ suffix, replace string }

// detachment rules applied after the exception lists, per part of speech
var substitutions = map[string][]substitution{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adjective: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
	Adverb: nil,
}

// Morphy returns the base forms of word for pos that exist in the index, the
// word itself first when it is already a lemma.
func (db *DB) Morphy(word, pos string) []string {
	pos = filePOS(pos)
	word = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(word)), " ", "_")
	if word == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	add := func(w string) {
		if _, ok := seen[w]; ok || !db.Has(w, pos) {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	add(word)
	for _, base := range db.exc[pos][word] {
		add(base)
	}
	for _, sub := range substitutions[pos] {
		if strings.HasSuffix(word, sub.suffix) && len(word) > len(sub.suffix) {
			add(word[:len(word)-len(sub.suffix)] + sub.replace)
		}
	}
	return out
}

// Lemma returns the base form of a context word, trying nouns first and then
// verbs, adjectives and adverbs. Unknown words are returned unchanged.
func (db *DB) Lemma(word string) string {
	for _, pos := range posOrder {
		if forms := db.Morphy(word, pos); len(forms) > 0 {
			return forms[0]
		}
	}
	return word
}

package corpus

import (
	"strings"
	"unicode"

	"github.com/mohammad-safakhou/wsd/internal/textnorm"
)

// Sentences splits text after '.', '!' or '?' (and any closing quotes or
// brackets) when followed by whitespace or the end of the text.
func Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && isTerminator(runes[end]) {
			end++
		}
		for end < len(runes) && isCloser(runes[end]) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
		i = end - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '’', '”':
		return true
	}
	return false
}

// FirstSentenceWith returns the first sentence of text containing word as a
// whole word, case-insensitively.
func FirstSentenceWith(text, word string) (string, bool) {
	for _, s := range Sentences(text) {
		if textnorm.ContainsWord(s, word) {
			return s, true
		}
	}
	return "", false
}

package wordnet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPOS is returned for a part-of-speech filter outside n, v, a, s, r.
var ErrInvalidPOS = errors.New("unknown part of speech")

// Sense is a synset as seen from one query word.
type Sense struct {
	Name       string   `json:"synset"`
	Key        string   `json:"-"`
	POS        string   `json:"pos"`
	Lemmas     []string `json:"lemmas"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples,omitempty"`
}

// ValidatePOS accepts the empty filter and the WordNet part-of-speech letters.
func ValidatePOS(pos string) error {
	switch pos {
	case "", Noun, Verb, Adjective, Satellite, Adverb:
		return nil
	}
	return fmt.Errorf("%w: %q (expected one of n, v, a, s, r)", ErrInvalidPOS, pos)
}

// Senses lists the synsets of word, restricted to pos when given, in index
// order. A word absent from the inventory yields an empty list.
func (db *DB) Senses(word, pos string) ([]Sense, error) {
	if err := ValidatePOS(pos); err != nil {
		return nil, err
	}
	posList := posOrder
	if pos != "" {
		posList = []string{filePOS(pos)}
	}
	var out []Sense
	seen := make(map[string]struct{})
	for _, p := range posList {
		for _, lemma := range db.Morphy(word, p) {
			for _, off := range db.index[p][lemma] {
				key := p + ":" + off
				if _, ok := seen[key]; ok {
					continue
				}
				s, err := db.Synset(key)
				if err != nil {
					return nil, err
				}
				// the satellite filter narrows adjectives to satellites only
				if pos == Satellite && s.POS != Satellite {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, Sense{
					Name:       db.Name(s),
					Key:        key,
					POS:        s.POS,
					Lemmas:     readable(s.Words),
					Definition: s.Definition,
					Examples:   s.Examples,
				})
			}
		}
	}
	return out, nil
}

func readable(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ReplaceAll(w, "_", " ")
	}
	return out
}

// hypernymDistances maps every ancestor of key (and key itself) to its shortest
// distance along hypernym edges.
func (db *DB) hypernymDistances(key string) map[string]int {
	dist := map[string]int{key: 0}
	queue := []string{key}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		s, err := db.Synset(cur)
		if err != nil {
			continue
		}
		for _, h := range s.Hypernyms {
			if _, ok := dist[h]; ok {
				continue
			}
			dist[h] = dist[cur] + 1
			queue = append(queue, h)
		}
	}
	return dist
}

// PathSimilarity is 1/(1+d) where d is the shortest path between the two
// synsets through a common hypernym. It is 0 when they share no ancestor.
func (db *DB) PathSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	da := db.hypernymDistances(a)
	db2 := db.hypernymDistances(b)
	best := -1
	for k, x := range da {
		if y, ok := db2[k]; ok {
			if d := x + y; best < 0 || d < best {
				best = d
			}
		}
	}
	if best < 0 {
		return 0
	}
	return 1 / float64(best+1)
}

// KeyOf resolves a lemma.pos.NN sense name back to its database key.
func (db *DB) KeyOf(name string) (string, bool) {
	last := strings.LastIndexByte(name, '.')
	if last <= 0 {
		return "", false
	}
	mid := strings.LastIndexByte(name[:last], '.')
	if mid <= 0 {
		return "", false
	}
	lemma, pos, num := name[:mid], name[mid+1:last], name[last+1:]
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return "", false
	}
	offsets := db.index[filePOS(pos)][lemma]
	if n > len(offsets) {
		return "", false
	}
	return filePOS(pos) + ":" + offsets[n-1], true
}

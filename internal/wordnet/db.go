// Package wordnet reads a WordNet 3.x database directory (the index.* / data.* /
// *.exc files of the WNdb distribution) and exposes the hierarchical sense
// inventory used by the Lesk disambiguator.
package wordnet

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Parts of speech as they appear in index file names and sense names.
const (
	Noun      = "n"
	Verb      = "v"
	Adjective = "a"
	Satellite = "s"
	Adverb    = "r"
)

// posOrder is the order senses are listed in when no filter is given.
var posOrder = []string{Noun, Verb, Adjective, Adverb}

var fileSuffix = map[string]string{
	Noun:      "noun",
	Verb:      "verb",
	Adjective: "adj",
	Adverb:    "adv",
}

// ErrNoDatabase is returned when dir does not hold at least the noun files.
var ErrNoDatabase = errors.New("wordnet database not found")

// Synset is one parsed synonym set.
type Synset struct {
	Key        string   // file pos + ":" + offset
	Offset     string   // 8-digit byte offset as written in the data file
	POS        string   // ss_type: n, v, a, s or r
	Words      []string // lower-cased, underscores for spaces
	Definition string
	Examples   []string
	Hypernyms  []string // keys of hypernym and instance-hypernym synsets
}

// DB is read-only after Open and safe for concurrent use.
type DB struct {
	dir    string
	index  map[string]map[string][]string // pos -> lemma -> offsets in sense order
	lines  map[string]string              // key -> raw data line
	exc    map[string]map[string][]string // pos -> inflected -> base forms
	synset sync.Map                       // key -> *Synset
	names  sync.Map                       // key -> string
}

// Open loads the index, data and exception files found in dir. Only the noun
// files are mandatory.
func Open(dir string) (*DB, error) {
	db := &DB{
		dir:   dir,
		index: make(map[string]map[string][]string),
		lines: make(map[string]string),
		exc:   make(map[string]map[string][]string),
	}
	for _, pos := range posOrder {
		suffix := fileSuffix[pos]
		if err := db.loadIndex(pos, filepath.Join(dir, "index."+suffix)); err != nil {
			if pos == Noun && errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNoDatabase, dir)
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
		if err := db.loadData(pos, filepath.Join(dir, "data."+suffix)); err != nil {
			if pos == Noun && errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNoDatabase, dir)
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
		if err := db.loadExceptions(pos, filepath.Join(dir, suffix+".exc")); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return db, nil
}

func eachLine(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		// license header lines start with two spaces
		if line == "" || strings.HasPrefix(line, "  ") {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), n, err)
		}
	}
	return sc.Err()
}

// loadIndex parses "lemma pos synset_cnt p_cnt [ptr_symbol...] sense_cnt tagsense_cnt offset..." lines.
func (db *DB) loadIndex(pos, path string) error {
	entries := make(map[string][]string)
	err := eachLine(path, func(line string) error {
		f := strings.Fields(line)
		if len(f) < 6 {
			return fmt.Errorf("short index line")
		}
		synsetCnt, err := strconv.Atoi(f[2])
		if err != nil {
			return fmt.Errorf("synset_cnt: %w", err)
		}
		pCnt, err := strconv.Atoi(f[3])
		if err != nil {
			return fmt.Errorf("p_cnt: %w", err)
		}
		start := 4 + pCnt + 2
		if start+synsetCnt > len(f) {
			return fmt.Errorf("index line lists fewer offsets than synset_cnt")
		}
		entries[strings.ToLower(f[0])] = append([]string(nil), f[start:start+synsetCnt]...)
		return nil
	})
	if err != nil {
		return err
	}
	db.index[pos] = entries
	return nil
}

func (db *DB) loadData(pos, path string) error {
	return eachLine(path, func(line string) error {
		sp := strings.IndexByte(line, ' ')
		if sp <= 0 {
			return fmt.Errorf("malformed data line")
		}
		db.lines[pos+":"+line[:sp]] = line
		return nil
	})
}

func (db *DB) loadExceptions(pos, path string) error {
	m := make(map[string][]string)
	err := eachLine(path, func(line string) error {
		f := strings.Fields(line)
		if len(f) < 2 {
			return nil
		}
		m[f[0]] = append(m[f[0]], f[1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	db.exc[pos] = m
	return nil
}

// filePOS maps an ss_type or pointer pos to the data file it lives in.
func filePOS(p string) string {
	if p == Satellite {
		return Adjective
	}
	return p
}

// Synset returns the synset stored under key, parsing it on first use.
func (db *DB) Synset(key string) (*Synset, error) {
	if v, ok := db.synset.Load(key); ok {
		return v.(*Synset), nil
	}
	line, ok := db.lines[key]
	if !ok {
		return nil, fmt.Errorf("synset %s not in database", key)
	}
	s, err := parseDataLine(line)
	if err != nil {
		return nil, fmt.Errorf("synset %s: %w", key, err)
	}
	s.Key = key
	v, _ := db.synset.LoadOrStore(key, s)
	return v.(*Synset), nil
}

// parseDataLine parses
// "offset lex_filenum ss_type w_cnt word lex_id [...] p_cnt [ptr...] [frames] | gloss".
func parseDataLine(line string) (*Synset, error) {
	head, gloss := line, ""
	if i := strings.Index(line, " | "); i >= 0 {
		head, gloss = line[:i], strings.TrimSpace(line[i+3:])
	}
	f := strings.Fields(head)
	if len(f) < 4 {
		return nil, fmt.Errorf("short data line")
	}
	s := &Synset{Offset: f[0], POS: f[2]}
	wCnt, err := strconv.ParseInt(f[3], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("w_cnt: %w", err)
	}
	i := 4
	for w := 0; w < int(wCnt); w++ {
		if i+1 >= len(f) {
			return nil, fmt.Errorf("data line lists fewer words than w_cnt")
		}
		s.Words = append(s.Words, cleanWord(f[i]))
		i += 2
	}
	if i >= len(f) {
		return nil, fmt.Errorf("missing p_cnt")
	}
	pCnt, err := strconv.Atoi(f[i])
	if err != nil {
		return nil, fmt.Errorf("p_cnt: %w", err)
	}
	i++
	for p := 0; p < pCnt; p++ {
		if i+3 >= len(f) {
			return nil, fmt.Errorf("data line lists fewer pointers than p_cnt")
		}
		symbol, offset, ptrPOS := f[i], f[i+1], f[i+2]
		if symbol == "@" || symbol == "@i" {
			s.Hypernyms = append(s.Hypernyms, filePOS(ptrPOS)+":"+offset)
		}
		i += 4
	}
	s.Definition, s.Examples = splitGloss(gloss)
	return s, nil
}

// cleanWord lower-cases and strips adjective syntactic markers such as "(p)".
func cleanWord(w string) string {
	if i := strings.IndexByte(w, '('); i > 0 && strings.HasSuffix(w, ")") {
		w = w[:i]
	}
	return strings.ToLower(w)
}

// splitGloss separates the definition from the quoted usage examples.
func splitGloss(gloss string) (string, []string) {
	var defs, examples []string
	for _, part := range strings.Split(gloss, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, `"`) {
			examples = append(examples, strings.Trim(part, `"`))
			continue
		}
		defs = append(defs, part)
	}
	return strings.Join(defs, "; "), examples
}

// Name returns the sense name in lemma.pos.NN form, where NN is the position of
// the synset among the senses of its first lemma.
func (db *DB) Name(s *Synset) string {
	if v, ok := db.names.Load(s.Key); ok {
		return v.(string)
	}
	lemma := "unknown"
	if len(s.Words) > 0 {
		lemma = s.Words[0]
	}
	num := 1
	for i, off := range db.index[filePOS(s.POS)][lemma] {
		if off == s.Offset {
			num = i + 1
			break
		}
	}
	name := fmt.Sprintf("%s.%s.%02d", lemma, s.POS, num)
	db.names.Store(s.Key, name)
	return name
}

// Has reports whether lemma has an index entry for pos.
func (db *DB) Has(lemma, pos string) bool {
	_, ok := db.index[filePOS(pos)][lemma]
	return ok
}

package similarity

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Embeddings is an in-memory word-vector model scored by cosine similarity.
type Embeddings struct {
	dim     int
	vectors map[string][]float64
}

// Dim is the vector length.
func (e *Embeddings) Dim() int { return e.dim }

// Len is the vocabulary size.
func (e *Embeddings) Len() int { return len(e.vectors) }

func (e *Embeddings) vector(w string) ([]float64, bool) {
	if v, ok := e.vectors[w]; ok {
		return v, true
	}
	v, ok := e.vectors[strings.ToLower(w)]
	return v, ok
}

// Similarity is the cosine of the two word vectors; out-of-vocabulary words
// and zero vectors are unavailable.
func (e *Embeddings) Similarity(_ context.Context, a, b string) (float64, bool) {
	va, ok := e.vector(a)
	if !ok {
		return 0, false
	}
	vb, ok := e.vector(b)
	if !ok {
		return 0, false
	}
	na, nb := floats.Norm(va, 2), floats.Norm(vb, 2)
	if na == 0 || nb == 0 {
		return 0, false
	}
	return floats.Dot(va, vb) / (na * nb), true
}

// LoadWord2Vec reads a model in word2vec format: binary (the original C tool's
// output) or text (.vec files, GloVe converted with a header line).
func LoadWord2Vec(path string, binaryFormat bool) (*Embeddings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReaderSize(f, 1<<20)
	if binaryFormat {
		return readBinary(r)
	}
	return readText(r)
}

func readHeader(line string) (count, dim int, ok bool) {
	f := strings.Fields(line)
	if len(f) != 2 {
		return 0, 0, false
	}
	c, err1 := strconv.Atoi(f[0])
	d, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil || d <= 0 {
		return 0, 0, false
	}
	return c, d, true
}

func readBinary(r *bufio.Reader) (*Embeddings, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("word2vec header: %w", err)
	}
	count, dim, ok := readHeader(header)
	if !ok {
		return nil, fmt.Errorf("word2vec header: malformed %q", strings.TrimSpace(header))
	}
	e := &Embeddings{dim: dim, vectors: make(map[string][]float64, count)}
	raw := make([]float32, dim)
	for i := 0; i < count; i++ {
		word, err := r.ReadString(' ')
		if err != nil {
			return nil, fmt.Errorf("word2vec entry %d: %w", i, err)
		}
		word = strings.TrimLeft(strings.TrimSuffix(word, " "), "\n")
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("word2vec vector %q: %w", word, err)
		}
		vec := make([]float64, dim)
		for j, x := range raw {
			vec[j] = float64(x)
		}
		e.vectors[word] = vec
	}
	return e, nil
}

func readText(r *bufio.Reader) (*Embeddings, error) {
	e := &Embeddings{vectors: make(map[string][]float64)}
	lineNo := 0
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			lineNo++
			if lineNo == 1 {
				if _, dim, ok := readHeader(line); ok {
					e.dim = dim
					continue
				}
			}
			if perr := e.addTextLine(line); perr != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, perr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Embeddings) addTextLine(line string) error {
	f := strings.Fields(line)
	if len(f) < 2 {
		return nil
	}
	word, comps := f[0], f[1:]
	if e.dim == 0 {
		e.dim = len(comps)
	}
	if len(comps) != e.dim {
		return fmt.Errorf("%q has %d components, want %d", word, len(comps), e.dim)
	}
	vec := make([]float64, e.dim)
	for i, c := range comps {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil || math.IsNaN(v) {
			return fmt.Errorf("%q component %d: %q", word, i, c)
		}
		vec[i] = v
	}
	e.vectors[word] = vec
	return nil
}

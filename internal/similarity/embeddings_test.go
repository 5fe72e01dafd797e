package similarity

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mohammad-safakhou/wsd/config"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadTextWithHeader(t *testing.T) {
	path := writeFile(t, "model.vec", []byte("3 2\ncar 1 0\nautomobile 0.8 0.6\nbanana 0 1\n"))
	e, err := LoadWord2Vec(path, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if e.Len() != 3 || e.Dim() != 2 {
		t.Fatalf("len=%d dim=%d", e.Len(), e.Dim())
	}
	v, ok := e.Similarity(context.Background(), "car", "Automobile")
	if !ok || math.Abs(v-0.8) > 1e-9 {
		t.Fatalf("cosine = %v, %v", v, ok)
	}
	if _, ok := e.Similarity(context.Background(), "car", "zebra"); ok {
		t.Fatalf("oov must be unavailable")
	}
}

func TestLoadTextWithoutHeader(t *testing.T) {
	path := writeFile(t, "glove.txt", []byte("king 0.5 0.5 0\nqueen 0.5 0.4 0.1\n"))
	e, err := LoadWord2Vec(path, false)
	if err != nil || e.Dim() != 3 || e.Len() != 2 {
		t.Fatalf("load: %v %+v", err, e)
	}
	if _, err := LoadWord2Vec(writeFile(t, "bad.txt", []byte("a 1 2\nb 1\n")), false); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestLoadBinary(t *testing.T) {
	var buf []byte
	buf = append(buf, []byte("2 3\n")...)
	add := func(word string, vec []float32) {
		buf = append(buf, []byte(word+" ")...)
		for _, x := range vec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
		}
		buf = append(buf, '\n')
	}
	add("car", []float32{1, 2, 3})
	add("auto", []float32{1, 2, 3})
	e, err := LoadWord2Vec(writeFile(t, "w2v.bin", buf), true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	v, ok := e.Similarity(context.Background(), "car", "auto")
	if !ok || math.Abs(v-1) > 1e-6 {
		t.Fatalf("cosine = %v, %v", v, ok)
	}
}

func TestLoadProvidersSkipsBrokenModels(t *testing.T) {
	good := writeFile(t, "ft.vec", []byte("1 2\ncar 1 0\n"))
	ps := LoadProviders(Unavailable{}, config.EmbeddingsConfig{
		Word2VecPath: "/nonexistent/GoogleNews.bin",
		FastTextPath: good,
	})
	names := ps.Names()
	if len(names) != 2 || names[0] != OracleName || names[1] != "fasttext" {
		t.Fatalf("providers = %v", names)
	}
	if _, ok := ps.Lookup("FastText"); !ok {
		t.Fatalf("lookup should ignore case")
	}
	if _, ok := ps.Lookup("glove"); ok {
		t.Fatalf("unconfigured provider must be absent")
	}
}

package similarity

import (
	"context"
	"strings"

	"github.com/mohammad-safakhou/wsd/config"
	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/mohammad-safakhou/wsd/internal/metrics"
)

// OracleName is the provider name of the configured similarity oracle.
const OracleName = "wikisim"

// Provider is a named oracle. Calls are counted per provider and outcome.
type Provider struct {
	Name   string
	Oracle Oracle
}

func (p Provider) Similarity(ctx context.Context, a, b string) (float64, bool) {
	v, ok := p.Oracle.Similarity(ctx, a, b)
	outcome := "ok"
	if !ok {
		outcome = "unavailable"
	}
	metrics.OracleCalls.WithLabelValues(p.Name, outcome).Inc()
	return v, ok
}

// Providers is an ordered provider list, the oracle first.
type Providers []Provider

// Lookup finds a provider by case-insensitive name.
func (ps Providers) Lookup(name string) (Provider, bool) {
	for _, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Provider{}, false
}

func (ps Providers) Names() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

// LoadProviders builds the oracle and every embedding model with a configured
// path. A model that fails to load is logged and left out.
func LoadProviders(oracle Oracle, cfg config.EmbeddingsConfig) Providers {
	logger := logging.New("similarity")
	ps := Providers{{Name: OracleName, Oracle: oracle}}
	models := []struct {
		name   string
		path   string
		binary bool
	}{
		{"word2vec", cfg.Word2VecPath, true},
		{"glove", cfg.GloVePath, false},
		{"fasttext", cfg.FastTextPath, false},
	}
	for _, m := range models {
		if strings.TrimSpace(m.path) == "" {
			continue
		}
		binary := m.binary && !isTextModel(m.path)
		e, err := LoadWord2Vec(m.path, binary)
		if err != nil {
			logger.Warnw("embedding model not loaded", "provider", m.name, "path", m.path, "error", err)
			continue
		}
		logger.Infow("embedding model loaded", "provider", m.name, "words", e.Len(), "dim", e.Dim())
		ps = append(ps, Provider{Name: m.name, Oracle: e})
	}
	return ps
}

func isTextModel(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".vec")
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/wsd/config"
	"github.com/mohammad-safakhou/wsd/internal/batch"
	"github.com/mohammad-safakhou/wsd/internal/cache"
	"github.com/mohammad-safakhou/wsd/internal/corpus"
	"github.com/mohammad-safakhou/wsd/internal/eval"
	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/mohammad-safakhou/wsd/internal/similarity"
	"github.com/mohammad-safakhou/wsd/internal/store"
	"github.com/mohammad-safakhou/wsd/internal/textnorm"
	"github.com/mohammad-safakhou/wsd/internal/wiki"
	"github.com/mohammad-safakhou/wsd/internal/wordnet"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// resources holds everything built from config for one command invocation.
type resources struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	rdb    *redis.Client

	methods map[string]batch.Disambiguator

	runs      store.RunStore
	closeRuns func() error
}

func loadConfig(cfgPath string) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.General.LogLevel, cfg.General.Debug); err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}
	return cfg, nil
}

// bootstrap loads config and connects Redis when configured. Disambiguators
// and the run store are built on demand.
func bootstrap(ctx context.Context, cfgPath string) (*resources, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	r := &resources{cfg: cfg, logger: logging.New("wsd")}
	if cfg.Storage.Redis.Enabled() {
		rdb, err := cache.Conn(ctx, cfg.Storage.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
		r.rdb = rdb
	}
	return r, nil
}

func (r *resources) Shutdown() {
	if r.closeRuns != nil {
		if err := r.closeRuns(); err != nil {
			r.logger.Warnw("close run store", "error", err)
		}
	}
	if r.rdb != nil {
		_ = r.rdb.Close()
	}
}

func (r *resources) redisCache() *cache.Redis {
	if r.rdb == nil {
		return nil
	}
	return cache.NewRedis(r.rdb)
}

// disambiguators builds the wordnet and wiki variants. A missing WordNet
// database leaves the wordnet variant out instead of failing.
func (r *resources) disambiguators() map[string]batch.Disambiguator {
	if r.methods != nil {
		return r.methods
	}
	r.methods = make(map[string]batch.Disambiguator, 2)
	memSize := r.cfg.Storage.Cache.MemorySize

	db, err := wordnet.Open(r.cfg.Resources.WordNet.Dir)
	if err != nil {
		r.logger.Warnw("wordnet disabled", "dir", r.cfg.Resources.WordNet.Dir, "error", err)
	} else {
		norm := textnorm.New(lemmatizer(r.cfg.Resources.WordNet.Lemmatizer, db))
		res := cache.Wrap(wordnet.NewAdapter(db), memSize, r.redisCache())
		r.methods[wordnet.Variant] = lesk.NewDisambiguator(res, norm)
	}

	wcfg := r.cfg.Resources.Wiki
	var wikiLem textnorm.Lemmatizer
	if r.cfg.Resources.WordNet.Lemmatizer == "porter" {
		wikiLem = textnorm.NewPorter()
	}
	res := cache.Wrap(wiki.NewAdapter(wiki.NewClient(wcfg), wcfg.MaxCandidates), memSize, r.redisCache())
	r.methods[wiki.Variant] = lesk.NewDisambiguator(res, textnorm.New(wikiLem))
	return r.methods
}

// lemmatizer maps the configured name onto an implementation; the wordnet
// lemmatizer needs the database and otherwise degrades to identity.
func lemmatizer(name string, db *wordnet.DB) textnorm.Lemmatizer {
	switch name {
	case "wordnet":
		if db != nil {
			return db
		}
	case "porter":
		return textnorm.NewPorter()
	}
	return textnorm.Identity{}
}

func (r *resources) disambiguator(method string) (batch.Disambiguator, error) {
	d, ok := r.disambiguators()[method]
	if !ok {
		return nil, fmt.Errorf("%w: method %q is not available", lesk.ErrInvalidInput, method)
	}
	return d, nil
}

func (r *resources) runStore(ctx context.Context) (store.RunStore, error) {
	if r.runs != nil {
		return r.runs, nil
	}
	st, closeFn, err := store.Open(ctx, r.cfg.Storage)
	if err != nil {
		return nil, err
	}
	r.runs, r.closeRuns = st, closeFn
	return st, nil
}

func (r *resources) runner(ctx context.Context) (*batch.Runner, error) {
	st, err := r.runStore(ctx)
	if err != nil {
		return nil, err
	}
	if len(r.disambiguators()) == 0 {
		return nil, errors.New("no disambiguation method available")
	}
	return batch.NewRunner(corpus.NewSource(r.cfg.Corpus.AquaintDir), r.disambiguators(), st, r.cfg.Batch.MaxLimit), nil
}

func (r *resources) evaluator() (*eval.Evaluator, similarity.Oracle, error) {
	oracle, err := similarity.New(r.cfg.Oracle)
	if err != nil {
		return nil, nil, err
	}
	providers := similarity.LoadProviders(oracle, r.cfg.Embeddings)
	return eval.NewEvaluator(r.cfg.Evaluation.DataDir, providers), oracle, nil
}

func withResources(ctx context.Context, cfgPath string, fn func(context.Context, *resources) error) error {
	r, err := bootstrap(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer r.Shutdown()
	return fn(ctx, r)
}

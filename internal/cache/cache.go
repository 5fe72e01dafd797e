// Package cache memoizes candidate sets per (variant, word, pos). Only complete
// sets (no skipped candidates) are stored.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/mohammad-safakhou/wsd/internal/metrics"
	"go.uber.org/zap"
)

// Store is one cache layer.
type Store interface {
	Get(ctx context.Context, key string) (lesk.CandidateSet, bool, error)
	Set(ctx context.Context, key string, set lesk.CandidateSet) error
}

// Key joins the lookup parameters.
func Key(variant, word, pos string) string {
	return variant + "|" + word + "|" + pos
}

// DefaultMemorySize bounds the memory layer when no size is configured.
const DefaultMemorySize = 10000

// Memory is a process-local LRU layer.
type Memory struct {
	lru *lru.Cache[string, lesk.CandidateSet]
}

// NewMemory keeps at most size entries; size <= 0 means DefaultMemorySize.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	// lru.New only fails for a non-positive size
	c, _ := lru.New[string, lesk.CandidateSet](size)
	return &Memory{lru: c}
}

func (c *Memory) Get(_ context.Context, key string) (lesk.CandidateSet, bool, error) {
	set, ok := c.lru.Get(key)
	return set, ok, nil
}

func (c *Memory) Set(_ context.Context, key string, set lesk.CandidateSet) error {
	c.lru.Add(key, set)
	return nil
}

type layer struct {
	name  string
	store Store
}

// Resource decorates a lesk.Resource with layered caching. Lookups go through
// the layers in order; a hit in a later layer back-fills the earlier ones.
// Cache errors are logged and treated as misses.
type Resource struct {
	inner  lesk.Resource
	layers []layer
	logger *zap.SugaredLogger
}

// Wrap adds a memory layer of memorySize entries, plus redis when rdb is non-nil.
func Wrap(inner lesk.Resource, memorySize int, rdb *Redis) *Resource {
	r := &Resource{inner: inner, logger: logging.New("cache")}
	r.layers = append(r.layers, layer{name: "memory", store: NewMemory(memorySize)})
	if rdb != nil {
		r.layers = append(r.layers, layer{name: "redis", store: rdb})
	}
	return r
}

func (r *Resource) Variant() string { return r.inner.Variant() }

func (r *Resource) Signature(c lesk.SenseCandidate) string { return r.inner.Signature(c) }

func (r *Resource) Unwrap() lesk.Resource { return r.inner }

func (r *Resource) Candidates(ctx context.Context, word, pos string) (lesk.CandidateSet, error) {
	key := Key(r.inner.Variant(), word, pos)
	for i, l := range r.layers {
		set, ok, err := l.store.Get(ctx, key)
		if err != nil {
			r.logger.Warnw("cache get failed", "layer", l.name, "key", key, "error", err)
			continue
		}
		if !ok {
			metrics.CacheLookups.WithLabelValues(l.name, "miss").Inc()
			continue
		}
		metrics.CacheLookups.WithLabelValues(l.name, "hit").Inc()
		r.fill(ctx, r.layers[:i], key, set)
		return set, nil
	}

	set, err := r.inner.Candidates(ctx, word, pos)
	if err != nil {
		return set, err
	}
	if set.Skipped == 0 {
		r.fill(ctx, r.layers, key, set)
	}
	return set, nil
}

func (r *Resource) fill(ctx context.Context, layers []layer, key string, set lesk.CandidateSet) {
	for _, l := range layers {
		if err := l.store.Set(ctx, key, set); err != nil {
			r.logger.Warnw("cache set failed", "layer", l.name, "key", key, "error", err)
		}
	}
}

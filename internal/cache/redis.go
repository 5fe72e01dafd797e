package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/wsd/config"
	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/redis/go-redis/v9"
)

const sensesKeyPrefix = "wsd:senses:"

// Conn opens and pings a Redis client.
func Conn(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		DialTimeout: cfg.Timeout,
		Password:    cfg.Password,
		DB:          cfg.DB,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

// Redis stores candidate sets as JSON without expiry.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis { return &Redis{client: client} }

func (r *Redis) Get(ctx context.Context, key string) (lesk.CandidateSet, bool, error) {
	val, err := r.client.Get(ctx, sensesKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return lesk.CandidateSet{}, false, nil
		}
		return lesk.CandidateSet{}, false, err
	}
	var set lesk.CandidateSet
	if err := json.Unmarshal(val, &set); err != nil {
		return lesk.CandidateSet{}, false, err
	}
	if set.Candidates == nil {
		set.Candidates = []lesk.SenseCandidate{}
	}
	return set, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, set lesk.CandidateSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sensesKeyPrefix+key, data, 0).Err()
}

package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/mohammad-safakhou/wsd/config"
	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	lockKeyPrefix = "wsd:sched:lock:"
	lastKeyPrefix = "wsd:sched:last:"
	lockTTL       = 30 * time.Minute
)

type runFunc interface {
	Run(ctx context.Context, req Request) (Summary, error)
}

// Scheduler fires configured batch runs on their cron schedules. With Redis, the
// last fire time is shared and a SETNX lock keeps replicas from firing the same
// schedule twice.
type Scheduler struct {
	runner    runFunc
	schedules []config.ScheduleConfig
	interval  time.Duration
	rdb       *redis.Client
	now       func() time.Time
	started   time.Time
	logger    *zap.SugaredLogger

	mu   sync.Mutex
	last map[string]time.Time
}

func NewScheduler(runner runFunc, cfg config.BatchConfig, rdb *redis.Client) *Scheduler {
	interval := cfg.SchedulerInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		runner:    runner,
		schedules: cfg.Schedules,
		interval:  interval,
		rdb:       rdb,
		now:       time.Now,
		started:   time.Now(),
		logger:    logging.New("scheduler"),
		last:      make(map[string]time.Time),
	}
}

// Start ticks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	if len(s.schedules) == 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

func scheduleKey(sc config.ScheduleConfig) string {
	return fmt.Sprintf("%s|%s|%d|%s", sc.Method, sc.Target, sc.Limit, sc.Cron)
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	for _, sc := range s.schedules {
		key := scheduleKey(sc)
		expr, err := cronexpr.Parse(sc.Cron)
		if err != nil {
			s.logger.Warnw("invalid schedule", "schedule", key, "error", err)
			continue
		}
		base := s.lastRun(ctx, key)
		if !isDue(expr, base, now) {
			continue
		}
		if !s.lock(ctx, key) {
			continue
		}
		sum, err := s.runner.Run(ctx, Request{Target: sc.Target, Limit: sc.Limit, Method: sc.Method})
		s.markRun(ctx, key, now)
		s.unlock(ctx, key)
		if err != nil {
			s.logger.Errorw("scheduled run failed", "schedule", key, "error", err)
			continue
		}
		s.logger.Infow("scheduled run stored", "schedule", key, "run_id", sum.RunID, "processed", sum.Processed)
	}
}

// isDue reports whether the schedule has a firing time in (base, now].
func isDue(expr *cronexpr.Expression, base, now time.Time) bool {
	next := expr.Next(base)
	return !next.IsZero() && !next.After(now)
}

// lastRun is the last fire time, or the scheduler start when it never fired.
func (s *Scheduler) lastRun(ctx context.Context, key string) time.Time {
	if s.rdb != nil {
		if v, err := s.rdb.Get(ctx, lastKeyPrefix+key).Time(); err == nil {
			return v
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.last[key]; ok {
		return t
	}
	return s.started
}

func (s *Scheduler) markRun(ctx context.Context, key string, at time.Time) {
	s.mu.Lock()
	s.last[key] = at
	s.mu.Unlock()
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, lastKeyPrefix+key, at, 0).Err(); err != nil {
			s.logger.Warnw("record schedule time", "schedule", key, "error", err)
		}
	}
}

// lock takes the distributed lock; without Redis it always succeeds.
func (s *Scheduler) lock(ctx context.Context, key string) bool {
	if s.rdb == nil {
		return true
	}
	ok, err := s.rdb.SetNX(ctx, lockKeyPrefix+key, "1", lockTTL).Result()
	if err != nil {
		s.logger.Warnw("schedule lock", "schedule", key, "error", err)
		return false
	}
	return ok
}

func (s *Scheduler) unlock(ctx context.Context, key string) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, lockKeyPrefix+key).Err()
	}
}

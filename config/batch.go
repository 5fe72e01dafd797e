package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorhill/cronexpr"
)

// ScheduleConfig declares a batch run fired on a cron schedule.
type ScheduleConfig struct {
	Target string `mapstructure:"target" json:"target"`
	Limit  int    `mapstructure:"limit" json:"limit"`
	Method string `mapstructure:"method" json:"method"`
	Cron   string `mapstructure:"cron" json:"cron"`
}

// Normalize trims schedule entries, lower-cases methods and applies defaults.
func (c BatchConfig) Normalize() BatchConfig {
	cfg := c
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 1000
	}
	if cfg.SchedulerInterval <= 0 {
		cfg.SchedulerInterval = time.Minute
	}
	schedules := make([]ScheduleConfig, 0, len(cfg.Schedules))
	for _, s := range cfg.Schedules {
		s.Target = strings.TrimSpace(s.Target)
		s.Method = strings.ToLower(strings.TrimSpace(s.Method))
		s.Cron = strings.TrimSpace(s.Cron)
		if s.Target == "" {
			continue
		}
		if s.Method == "" {
			s.Method = "wordnet"
		}
		if s.Cron == "" {
			s.Cron = "@daily"
		}
		if s.Limit <= 0 {
			s.Limit = 10
		}
		schedules = append(schedules, s)
	}
	cfg.Schedules = schedules
	return cfg
}

// Validate ensures every schedule can be fired.
func (c BatchConfig) Validate() error {
	for i, s := range c.Schedules {
		if s.Method != "wordnet" && s.Method != "wiki" {
			return fmt.Errorf("batch.schedules[%d].method must be wordnet or wiki", i)
		}
		if s.Limit > c.MaxLimit {
			return fmt.Errorf("batch.schedules[%d].limit exceeds batch.max_limit (%d)", i, c.MaxLimit)
		}
		if _, err := cronexpr.Parse(s.Cron); err != nil {
			return fmt.Errorf("batch.schedules[%d].cron: %w", i, err)
		}
	}
	return nil
}

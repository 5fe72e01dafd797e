package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the disambiguation service
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Server     ServerConfig     `mapstructure:"server"`
	Resources  ResourcesConfig  `mapstructure:"resources"`
	Oracle     OracleConfig     `mapstructure:"oracle"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server and auth settings
type ServerConfig struct {
	Address   string `mapstructure:"address"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// ResourcesConfig groups the two lexical resources.
type ResourcesConfig struct {
	WordNet WordNetConfig `mapstructure:"wordnet"`
	Wiki    WikiConfig    `mapstructure:"wiki"`
}

// WordNetConfig points at a WordNet 3.x database directory (index.noun, data.noun, ...).
type WordNetConfig struct {
	Dir string `mapstructure:"dir"`
	// Lemmatizer used by the context normalizer: wordnet, porter or none.
	Lemmatizer string `mapstructure:"lemmatizer"`
}

// WikiConfig contains MediaWiki endpoint settings
type WikiConfig struct {
	APIURL        string        `mapstructure:"api_url"`
	RESTURL       string        `mapstructure:"rest_url"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Retries       int           `mapstructure:"retries"`
	MaxCandidates int           `mapstructure:"max_candidates"`
}

// OracleConfig configures the external similarity oracle. An empty command means
// every oracle call reports "unavailable".
type OracleConfig struct {
	Command string        `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmbeddingsConfig lists optional word-vector files used as extra similarity providers.
type EmbeddingsConfig struct {
	Word2VecPath string `mapstructure:"word2vec_path"`
	GloVePath    string `mapstructure:"glove_path"`
	FastTextPath string `mapstructure:"fasttext_path"`
}

// EvaluationConfig locates the benchmark datasets (MC.csv, RG.csv, WS353.csv).
type EvaluationConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// CorpusConfig locates the AQUAINT corpus.
type CorpusConfig struct {
	AquaintDir string `mapstructure:"aquaint_dir"`
}

// BatchConfig bounds batch runs and declares scheduled runs.
type BatchConfig struct {
	MaxLimit          int              `mapstructure:"max_limit"`
	SchedulerInterval time.Duration    `mapstructure:"scheduler_interval"`
	Schedules         []ScheduleConfig `mapstructure:"schedules"`
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Runs     RunsConfig     `mapstructure:"runs"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// RunsConfig selects where batch run artifacts are persisted.
type RunsConfig struct {
	Backend string `mapstructure:"backend"` // file or postgres
	DataDir string `mapstructure:"data_dir"`
}

func (r RunsConfig) Validate() error {
	switch r.Backend {
	case "file":
		if strings.TrimSpace(r.DataDir) == "" {
			return fmt.Errorf("storage.runs.data_dir required for file backend")
		}
	case "postgres":
	default:
		return fmt.Errorf("storage.runs.backend must be file or postgres, got %q", r.Backend)
	}
	return nil
}

// CacheConfig bounds the in-process candidate cache. Redis, when configured,
// is the unbounded second level.
type CacheConfig struct {
	MemorySize int `mapstructure:"memory_size"`
}

// RedisConfig contains Redis connection settings. Redis is optional: an empty host disables it.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a Redis host has been configured.
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", r.Host, port)
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (p PostgresConfig) Validate() error {
	if strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("storage.postgres.host required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("storage.postgres.dbname required when url is not provided")
	}
	return nil
}

// DSN constructs a connection string from the configuration.
func (p PostgresConfig) DSN() (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

// legacyEnv maps config keys to the environment variables the original deployment used.
var legacyEnv = map[string]string{
	"general.debug":            "DEBUG",
	"corpus.aquaint_dir":       "AQUAINT_DIR",
	"oracle.command":           "WIKISIM_CMD",
	"embeddings.word2vec_path": "WORD2VEC_PATH",
	"embeddings.glove_path":    "GLOVE_PATH",
	"embeddings.fasttext_path": "FASTTEXT_PATH",
	"storage.postgres.url":     "DATABASE_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":10001")
	v.SetDefault("resources.wordnet.dir", "data/wordnet")
	v.SetDefault("resources.wordnet.lemmatizer", "wordnet")
	v.SetDefault("resources.wiki.api_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("resources.wiki.rest_url", "https://en.wikipedia.org/api/rest_v1")
	v.SetDefault("resources.wiki.user_agent", "wsd-lesk/1.0 (https://github.com/mohammad-safakhou/wsd)")
	v.SetDefault("resources.wiki.timeout", 15*time.Second)
	v.SetDefault("resources.wiki.retries", 2)
	v.SetDefault("resources.wiki.max_candidates", 25)
	v.SetDefault("oracle.timeout", 10*time.Second)
	v.SetDefault("evaluation.data_dir", "data/eval")
	v.SetDefault("corpus.aquaint_dir", "data/aquaint")
	v.SetDefault("batch.max_limit", 1000)
	v.SetDefault("batch.scheduler_interval", time.Minute)
	v.SetDefault("storage.runs.backend", "file")
	v.SetDefault("storage.runs.data_dir", "data")
	v.SetDefault("storage.cache.memory_size", 10000)
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.timeout", 5*time.Second)
}

// Load reads config from path (or the default search paths when empty), the
// environment (WSD_* and the legacy variables) and an optional .env file.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		v.AddConfigPath(exeDir)
		v.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("WSD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envKey := "WSD_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Batch = cfg.Batch.Normalize()
	cfg.Resources.WordNet.Lemmatizer = strings.ToLower(strings.TrimSpace(cfg.Resources.WordNet.Lemmatizer))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section that has constraints.
func (c *Config) Validate() error {
	if err := c.Storage.Runs.Validate(); err != nil {
		return err
	}
	if c.Storage.Runs.Backend == "postgres" {
		if err := c.Storage.Postgres.Validate(); err != nil {
			return err
		}
	}
	switch c.Resources.WordNet.Lemmatizer {
	case "wordnet", "porter", "none":
	default:
		return fmt.Errorf("resources.wordnet.lemmatizer must be wordnet, porter or none, got %q", c.Resources.WordNet.Lemmatizer)
	}
	if c.Storage.Cache.MemorySize <= 0 {
		return fmt.Errorf("storage.cache.memory_size must be positive")
	}
	if c.Resources.Wiki.Retries < 0 {
		return fmt.Errorf("resources.wiki.retries cannot be negative")
	}
	return c.Batch.Validate()
}

// LoadConfig loads config and panics on failure, for use from command entrypoints.
func LoadConfig(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	return cfg
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TRIGDICT_DATABASE_PATH.
const EnvPrefix = "TRIGDICT"

// DefaultSpeakers is the roster of named characters seeded for the series.
var DefaultSpeakers = []string{
	"Clarke", "Octavia", "Miller", "Lincoln", "Madi", "Karina", "Warrior(s)",
	"Grounder(s)", "Indra", "Gaia", "Echo", "Crowd", "Bellamy", "Artigas",
	"Brell", "Tarik", "Reaper", "Penn", "Murphey", "Nyko", "Obika",
}

// Config is the resolved configuration of one trigdict run.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Dump     DumpConfig     `mapstructure:"dump"`
	Log      LogConfig      `mapstructure:"log"`
	Migrate  MigrateConfig  `mapstructure:"migrate"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Sources  SourcesConfig  `mapstructure:"sources"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
	// Community installs the word request collections.
	Community bool `mapstructure:"community"`
}

type DumpConfig struct {
	Location string        `mapstructure:"location"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type MigrateConfig struct {
	BatchSize       int  `mapstructure:"batch_size"`
	Workers         int  `mapstructure:"workers"`
	DedupeSentences bool `mapstructure:"dedupe_sentences"`
}

type SeedConfig struct {
	Seasons  int      `mapstructure:"seasons"`
	Speakers []string `mapstructure:"speakers"`
}

type SourcesConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "trigdict.db")
	v.SetDefault("database.community", true)
	v.SetDefault("dump.location", "dump.sql")
	v.SetDefault("dump.timeout", 2*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("migrate.batch_size", 200)
	v.SetDefault("migrate.workers", 3)
	v.SetDefault("migrate.dedupe_sentences", false)
	v.SetDefault("seed.seasons", 7)
	v.SetDefault("seed.speakers", DefaultSpeakers)
	v.SetDefault("sources.timeout", 30*time.Second)
	v.SetDefault("sources.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
}

// New returns a viper instance with defaults and TRIGDICT_ environment overrides.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file into v when given, then decodes and validates the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path must be non-empty"))
	}
	if c.Migrate.BatchSize < 1 || c.Migrate.BatchSize > 10000 {
		errs = append(errs, fmt.Errorf("migrate.batch_size must be between 1 and 10000, got %d", c.Migrate.BatchSize))
	}
	if c.Migrate.Workers < 1 {
		errs = append(errs, fmt.Errorf("migrate.workers must be at least 1, got %d", c.Migrate.Workers))
	}
	if c.Seed.Seasons < 1 || c.Seed.Seasons > 99 {
		errs = append(errs, fmt.Errorf("seed.seasons must be between 1 and 99, got %d", c.Seed.Seasons))
	}
	return errors.Join(errs...)
}

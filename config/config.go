package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kmacleod/sitrep/intel"
)

// Config is the full runtime configuration. Values resolve in viper's usual
// order: explicit flag binding, SITREP_ environment variables, the config
// file, then defaults.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Language string `mapstructure:"language"`

	PollInterval time.Duration `mapstructure:"poll_interval"`
	Doctrine     string        `mapstructure:"doctrine"`
	LogLevel     string        `mapstructure:"log_level"`

	TTL TTLConfig `mapstructure:"ttl"`
}

// TTLConfig tunes the intel cache windows. Zero values fall back to the
// intel defaults.
type TTLConfig struct {
	Snapshot   time.Duration `mapstructure:"snapshot"`
	Intel      time.Duration `mapstructure:"intel"`
	Map        time.Duration `mapstructure:"map"`
	Queues     time.Duration `mapstructure:"queues"`
	Attributes time.Duration `mapstructure:"attributes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 7445)
	v.SetDefault("language", "zh")
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("doctrine", "")
	v.SetDefault("log_level", "info")

	defaults := intel.DefaultTTLs()
	v.SetDefault("ttl.snapshot", defaults.Snapshot)
	v.SetDefault("ttl.intel", defaults.Intel)
	v.SetDefault("ttl.map", defaults.Map)
	v.SetDefault("ttl.queues", defaults.Queues)
	v.SetDefault("ttl.attributes", defaults.Attributes)
}

// Load reads configuration from the given file (optional; empty means
// search for sitrep.yaml in the working directory) plus SITREP_ environment
// overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SITREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("sitrep")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
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

// Validate checks the loaded values make sense together.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Addr returns the query server address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// TTLs converts the cache tuning into the intel layer's shape.
func (c *Config) TTLs() intel.TTLs {
	return intel.TTLs{
		Snapshot:   c.TTL.Snapshot,
		Intel:      c.TTL.Intel,
		Map:        c.TTL.Map,
		Queues:     c.TTL.Queues,
		Attributes: c.TTL.Attributes,
	}
}

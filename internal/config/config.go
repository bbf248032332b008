package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/halcyonsec/forge/internal/kibana"
	"github.com/halcyonsec/forge/internal/sink"
)

// Config is the complete forge configuration.
type Config struct {
	Log        LogConfig             `mapstructure:"log" yaml:"log"`
	Server     ServerConfig          `mapstructure:"server" yaml:"server"`
	Simulation SimulationConfig      `mapstructure:"simulation" yaml:"simulation"`
	OpenSearch sink.OpenSearchConfig `mapstructure:"opensearch" yaml:"opensearch"`
	NATS       NATSConfig            `mapstructure:"nats" yaml:"nats"`
	Kibana     kibana.Config         `mapstructure:"kibana" yaml:"kibana"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig holds HTTP serve-mode settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Address returns the listen address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SimulationConfig holds campaign generation settings.
type SimulationConfig struct {
	Seed        int64         `mapstructure:"seed" yaml:"seed"`
	EventCount  int           `mapstructure:"event_count" yaml:"event_count"`
	TargetCount int           `mapstructure:"target_count" yaml:"target_count"`
	Space       string        `mapstructure:"space" yaml:"space"`
	Mitre       bool          `mapstructure:"mitre" yaml:"mitre"`
	BatchSize   int           `mapstructure:"batch_size" yaml:"batch_size"`
	BatchPause  time.Duration `mapstructure:"batch_pause" yaml:"batch_pause"`
	CallTimeout time.Duration `mapstructure:"call_timeout" yaml:"call_timeout"`
}

// NATSConfig extends the sink settings with an enable switch so the
// broker stays optional.
type NATSConfig struct {
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
	sink.NATSConfig `mapstructure:",squash" yaml:",inline"`
}

// Load reads configuration with cascade: flags > ./forge.yaml >
// ~/.forge/forge.yaml > defaults. Environment variables use the FORGE_
// prefix with dots replaced by underscores.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("forge")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FORGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".forge"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8087)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.event_count", 100)
	v.SetDefault("simulation.target_count", 0)
	v.SetDefault("simulation.space", "default")
	v.SetDefault("simulation.mitre", true)
	v.SetDefault("simulation.batch_size", 5)
	v.SetDefault("simulation.batch_pause", 200*time.Millisecond)
	v.SetDefault("simulation.call_timeout", 30*time.Second)

	v.SetDefault("opensearch.url", "https://localhost:9200")
	v.SetDefault("opensearch.username", "admin")
	v.SetDefault("opensearch.password", "admin")
	v.SetDefault("opensearch.insecure", false)
	v.SetDefault("opensearch.index_prefix", "forge-alerts")
	v.SetDefault("opensearch.shard_count", 1)
	v.SetDefault("opensearch.replica_count", 0)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "forge.events")
	v.SetDefault("nats.name", "forge")
	v.SetDefault("nats.max_reconnects", -1)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)

	v.SetDefault("kibana.url", "http://localhost:5601")
	v.SetDefault("kibana.timeout", 10*time.Second)
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Simulation.EventCount < 0 {
		return fmt.Errorf("event count must not be negative: %d", c.Simulation.EventCount)
	}
	if c.Simulation.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive: %d", c.Simulation.BatchSize)
	}
	if c.OpenSearch.URL == "" {
		return fmt.Errorf("opensearch url is required")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("nats url is required when nats is enabled")
	}
	return nil
}

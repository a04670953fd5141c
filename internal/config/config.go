// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/norden-group/locintel-cli/internal/db"
)

// Config holds the full application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Synthetic SyntheticConfig `yaml:"synthetic" mapstructure:"synthetic"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig configures the primary relational source.
type DatabaseConfig struct {
	Driver      string        `yaml:"driver" mapstructure:"driver"` // "postgres" or "sqlite"
	DatabaseURL string        `yaml:"database_url" mapstructure:"database_url"`
	TimeoutSecs int           `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Pool        db.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ScrapeConfig configures the listings-site fallback source.
type ScrapeConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// GeocodeConfig configures coordinate enrichment.
type GeocodeConfig struct {
	NominatimURL string  `yaml:"nominatim_url" mapstructure:"nominatim_url"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateRPS      float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Workers      int     `yaml:"workers" mapstructure:"workers"`
}

// SyntheticConfig configures the terminal sample generator.
type SyntheticConfig struct {
	Count int   `yaml:"count" mapstructure:"count"`
	Seed  int64 `yaml:"seed" mapstructure:"seed"`
}

// ExportConfig configures XLSX output.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the JSON API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LOCINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.database_url", "")
	v.SetDefault("database.timeout_secs", 15)
	v.SetDefault("scrape.url", "https://www.newsec.com/properties")
	v.SetDefault("scrape.timeout_secs", 20)
	v.SetDefault("geocode.nominatim_url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocode.user_agent", "locintel/1.0 (property location intelligence)")
	v.SetDefault("geocode.rate_rps", 1.0)
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.workers", 4)
	v.SetDefault("synthetic.count", 50)
	v.SetDefault("synthetic.seed", 0)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

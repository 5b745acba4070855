package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Patterns PatternsConfig `yaml:"patterns" mapstructure:"patterns"`
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	OCR      OCRConfig      `yaml:"ocr" mapstructure:"ocr"`
	Learner  LearnerConfig  `yaml:"learner" mapstructure:"learner"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PatternsConfig configures the regex pattern catalog.
type PatternsConfig struct {
	// File is an optional JSON catalog overriding the built-in patterns.
	File string `yaml:"file" mapstructure:"file"`
}

// ExtractConfig configures extraction behavior.
type ExtractConfig struct {
	Workers       int  `yaml:"workers" mapstructure:"workers"`
	MaxLotNumber  int  `yaml:"max_lot_number" mapstructure:"max_lot_number"`
	OCRCleanup    bool `yaml:"ocr_cleanup" mapstructure:"ocr_cleanup"`
	TitleMaxLines int  `yaml:"title_max_lines" mapstructure:"title_max_lines"`
}

// OCRConfig selects how PDF text is obtained.
type OCRConfig struct {
	// Provider is "local" (pdftotext) or "mistral".
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MistralAPIKey string `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel  string `yaml:"mistral_model" mapstructure:"mistral_model"`
}

// LearnerConfig configures correlation training from stored history.
type LearnerConfig struct {
	HistoryLimit int `yaml:"history_limit" mapstructure:"history_limit"`
	MinSupport   int `yaml:"min_support" mapstructure:"min_support"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentFiles int `yaml:"max_concurrent_files" mapstructure:"max_concurrent_files"`
}

// ServerConfig configures the extraction HTTP server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
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
	v.SetEnvPrefix("TENDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "tender.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("extract.workers", 4)
	v.SetDefault("extract.max_lot_number", 200)
	v.SetDefault("extract.ocr_cleanup", true)
	v.SetDefault("extract.title_max_lines", 30)
	v.SetDefault("ocr.provider", "local")
	v.SetDefault("learner.history_limit", 1000)
	v.SetDefault("learner.min_support", 3)
	v.SetDefault("batch.max_concurrent_files", 5)

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

package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Model   ModelConfig   `mapstructure:"model"`
	Cache   CacheConfig   `mapstructure:"cache"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RateLimitPerSec float64       `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// DataConfig locates the catalog files loaded at startup.
type DataConfig struct {
	SymptomsPath string `mapstructure:"symptoms_path"`
	DiseasesPath string `mapstructure:"diseases_path"`
}

// ModelConfig locates the fitted ONNX classifiers and the ONNX Runtime
// shared library.
type ModelConfig struct {
	SharedLibraryPath string `mapstructure:"shared_library_path"`
	NaiveBayesPath    string `mapstructure:"naive_bayes_path"`
	RandomForestPath  string `mapstructure:"random_forest_path"`
	SVMPath           string `mapstructure:"svm_path"`
}

// CacheConfig controls the in-memory prediction result cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Size    int           `mapstructure:"size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// HistoryConfig controls the SQLite prediction history store.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

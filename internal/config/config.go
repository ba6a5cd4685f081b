package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/disease-prediction-server/internal/domain"
)

// Manager loads and validates application configuration using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/disease-prediction-server/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("DISEASE_DX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Read configuration file (optional - defaults and env vars apply if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.rate_limit_per_sec", 10)
	viper.SetDefault("server.rate_limit_burst", 20)

	// Catalog data defaults
	viper.SetDefault("data.symptoms_path", "./data/symptoms.csv")
	viper.SetDefault("data.diseases_path", "./data/diseases.csv")

	// Model defaults
	viper.SetDefault("model.shared_library_path", "/usr/lib/libonnxruntime.so")
	viper.SetDefault("model.naive_bayes_path", "./models/naive_bayes.onnx")
	viper.SetDefault("model.random_forest_path", "./models/random_forest.onnx")
	viper.SetDefault("model.svm_path", "./models/svm.onnx")

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.size", 512)
	viper.SetDefault("cache.ttl", "10m")

	// History defaults
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.db_path", "./data/history.db")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetModelConfig returns model configuration
func (m *Manager) GetModelConfig() *domain.ModelConfig {
	return &m.config.Model
}

// GetDataConfig returns catalog data configuration
func (m *Manager) GetDataConfig() *domain.DataConfig {
	return &m.config.Data
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.RateLimitPerSec <= 0 {
		return fmt.Errorf("invalid rate limit: %f", config.Server.RateLimitPerSec)
	}

	if config.Data.SymptomsPath == "" {
		return fmt.Errorf("symptom catalog path is required")
	}
	if config.Data.DiseasesPath == "" {
		return fmt.Errorf("disease catalog path is required")
	}

	if config.Model.SharedLibraryPath == "" {
		return fmt.Errorf("ONNX Runtime shared library path is required")
	}
	if config.Model.NaiveBayesPath == "" || config.Model.RandomForestPath == "" || config.Model.SVMPath == "" {
		return fmt.Errorf("all three classifier model paths are required")
	}

	if config.Cache.Enabled && config.Cache.Size <= 0 {
		return fmt.Errorf("invalid cache size: %d", config.Cache.Size)
	}

	if config.History.Enabled && config.History.DBPath == "" {
		return fmt.Errorf("history database path is required")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}

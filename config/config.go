package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	ProcMine ProcMineConfig `yaml:"procmine"`
}

// ProcMineConfig is the project configuration.
type ProcMineConfig struct {
	Input   InputConfig   `yaml:"input"`
	Mining  MiningConfig  `yaml:"mining"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig controls how event logs are read.
type InputConfig struct {
	CSV   CSVInputConfig `yaml:"csv"`
	Redis RedisConfig    `yaml:"redis"`
}

// CSVInputConfig controls CSV event-table parsing.
type CSVInputConfig struct {
	CaseColumn     string `yaml:"case_column"`
	ActivityColumn string `yaml:"activity_column"`
	Delimiter      string `yaml:"delimiter"`
}

// RedisConfig controls the Redis job consumer.
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	Key          string        `yaml:"key"`
	BlockTimeout time.Duration `yaml:"block_timeout"`
}

// MiningConfig carries the discovery variant and its thresholds. All
// thresholds are in [0,1]; range validation happens when the values are
// turned into mining options, before any run starts.
type MiningConfig struct {
	Variant                 string  `yaml:"variant"`
	ActivityThreshold       float64 `yaml:"activity_threshold"`
	TracesThreshold         float64 `yaml:"traces_threshold"`
	NoiseThreshold          float64 `yaml:"noise_threshold"`
	SimplificationThreshold float64 `yaml:"simplification_threshold"`
}

// OutputConfig controls result output.
type OutputConfig struct {
	TreePath string `yaml:"tree_path"`
	DotPath  string `yaml:"dot_path"`
}

// CacheConfig controls the Redis model cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

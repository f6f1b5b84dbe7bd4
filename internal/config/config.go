// Package config provides configuration loading and validation for the
// interview assistant. Values come from an optional JSON file merged with
// environment variables; flags are applied on top by the CLI layer.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Defaults applied where neither file nor environment provides a value.
const (
	DefaultPort          = 8080
	DefaultModel         = "gemini-2.5-flash"
	DefaultDataFile      = "interview-state.json"
	DefaultQuestionDelay = 2 // seconds
)

// Config holds all tunable settings.
type Config struct {
	// Server
	Port int `json:"port,omitempty" validate:"gte=0,lte=65535"`

	// AI
	APIKey string `json:"api_key,omitempty"`
	Model  string `json:"model,omitempty"`

	// Persistence
	DataFile string `json:"data_file,omitempty"`

	// Behavior
	QuestionDelay int  `json:"question_delay,omitempty" validate:"gte=0"` // seconds between feedback and next question
	Verbose       bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Unset variables leave
// the zero value so the result can be merged over a file config.
func FromEnv() Config {
	cfg := Config{
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		Model:    os.Getenv("GEMINI_MODEL"),
		DataFile: os.Getenv("INTERVIEW_DATA_FILE"),
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}
	if delay := os.Getenv("INTERVIEW_QUESTION_DELAY"); delay != "" {
		if n, err := strconv.Atoi(delay); err == nil {
			cfg.QuestionDelay = n
		}
	}
	return cfg
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-value fields filled from
// defaults, then from the built-in constants.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DataFile == "" {
		result.DataFile = defaults.DataFile
	}
	if result.QuestionDelay == 0 {
		result.QuestionDelay = defaults.QuestionDelay
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.Model == "" {
		result.Model = DefaultModel
	}
	if result.DataFile == "" {
		result.DataFile = DefaultDataFile
	}
	if result.QuestionDelay == 0 {
		result.QuestionDelay = DefaultQuestionDelay
	}

	return result
}

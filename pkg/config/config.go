package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that accepts either a duration string ("30s")
// or integer nanoseconds in config documents, and round-trips through JSON as
// the string form.
type Duration time.Duration

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Config represents the complete configuration for one evolution run. The
// schema is flat so the same document can be passed as a YAML file or an
// inline JSON string; YAML parsing accepts both.
type Config struct {
	// Task identity. Generated from the current time when empty.
	TaskID string `yaml:"task_id" json:"task_id"`

	// Seed content the initial population is grown from.
	Seed string `yaml:"seed" json:"seed"`

	// Free-form criteria handed to the fitness evaluator.
	EvaluationCriteria string `yaml:"evaluation_criteria" json:"evaluation_criteria"`

	// Evolutionary parameters
	MaxGenerations int     `yaml:"max_generations" json:"max_generations" validate:"min=1"`
	PopulationSize int     `yaml:"population_size" json:"population_size" validate:"min=1"`
	NumIslands     int     `yaml:"num_islands" json:"num_islands" validate:"min=1"`
	Elitism        bool    `yaml:"elitism" json:"elitism"`
	CrossoverRate  float64 `yaml:"crossover_rate" json:"crossover_rate" validate:"min=0,max=1"`
	MutationRate   float64 `yaml:"mutation_rate" json:"mutation_rate" validate:"min=0,max=1"`

	// Migration cadence in generations. The original design hard-coded 5.
	MigrationInterval int `yaml:"migration_interval" json:"migration_interval" validate:"min=1"`

	// Execution parameters
	Concurrency int      `yaml:"concurrency" json:"concurrency" validate:"min=1"`
	EvalTimeout Duration `yaml:"eval_timeout" json:"eval_timeout" validate:"min=0"`

	// RandomSeed fixes the engine RNG for reproducible runs. Zero derives a
	// seed from the current time.
	RandomSeed int64 `yaml:"random_seed" json:"random_seed"`

	// Persistence
	OutputDir string `yaml:"output_dir" json:"output_dir"`
	Storage   string `yaml:"storage" json:"storage" validate:"oneof=file sqlite"`

	// Logging
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns the configuration defaults matching the reference runner.
func Default() Config {
	return Config{
		MaxGenerations:    20,
		PopulationSize:    10,
		NumIslands:        2,
		Elitism:           true,
		CrossoverRate:     0.6,
		MutationRate:      0.4,
		MigrationInterval: 5,
		Concurrency:       4,
		EvalTimeout:       Duration(30 * time.Second),
		OutputDir:         ".",
		Storage:           "file",
		LogLevel:          "INFO",
	}
}

// EnsureTaskID fills in a time-derived task id when none was supplied.
func (c *Config) EnsureTaskID() {
	if c.TaskID == "" {
		c.TaskID = fmt.Sprintf("task_%d", time.Now().Unix())
	}
}

// Load reads a configuration file, layering it over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON configuration document over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

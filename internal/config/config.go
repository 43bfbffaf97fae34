// Package config loads the optional ladle.yaml server configuration.
// Flags override file values; the file overrides defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "ladle.yaml"

// Duration parses Go duration strings ("30s", "1h") from YAML; yaml.v3 has no
// native time.Duration support.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the serve-mode settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// Redis enables shared session state and distributed locking when set.
	Redis RedisConfig `yaml:"redis"`

	// ExtractorURL is the base URL of the recipe extraction service.
	ExtractorURL string `yaml:"extractor_url"`

	// GenAI configures the answering collaborator.
	GenAI GenAIConfig `yaml:"genai"`

	// CollaboratorTimeout bounds a single answering collaborator call.
	CollaboratorTimeout Duration `yaml:"collaborator_timeout"`

	// BookPath points at a local recipe book directory to preload.
	BookPath string `yaml:"book_path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`

	// SessionTTL expires idle sessions. Zero keeps them forever.
	SessionTTL Duration `yaml:"session_ttl"`
}

type GenAIConfig struct {
	// Enabled wires the Gemini answerer. Credentials come from the
	// environment (GEMINI_API_KEY).
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:                ":8080",
		CollaboratorTimeout: Duration(15 * time.Second),
	}
}

// Load reads and parses a config file over the defaults. A missing file at
// the default path is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks field consistency.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.CollaboratorTimeout < 0 {
		return fmt.Errorf("collaborator_timeout must not be negative")
	}
	if c.Redis.SessionTTL < 0 {
		return fmt.Errorf("redis.session_ttl must not be negative")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Extractor provider and mode selectors.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	ModeBatched  = "batched"
	ModePerImage = "per_image"
)

// Config is the full application configuration. Values load from the
// environment (with defaults) and may be overridden by a YAML file in which
// ${VAR} references are expanded before parsing.
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:""`
	Pipeline  PipelineConfig  `yaml:"pipeline" envPrefix:""`
	Google    GoogleConfig    `yaml:"google" envPrefix:""`
	OpenAI    OpenAIConfig    `yaml:"openai" envPrefix:""`
	Anthropic AnthropicConfig `yaml:"anthropic" envPrefix:""`
	Extractor ExtractorConfig `yaml:"extractor" envPrefix:""`
}

// ServerConfig holds HTTP surface settings.
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port"        env:"HTTP_PORT"        envDefault:"9000"`
	MetricsPort     int           `yaml:"metrics_port"     env:"METRICS_PORT"     envDefault:"9091"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `yaml:"log_level"        env:"LOG_LEVEL"        envDefault:"info"`
}

// PipelineConfig holds orchestration settings.
type PipelineConfig struct {
	// WorkDir is the base under which each request gets its own
	// uuid-keyed workspace directory.
	WorkDir string `yaml:"work_dir" env:"WORK_DIR" envDefault:"/tmp/geo-director"`
	// MaxResolution caps the downloaded video height to bound the cost of
	// upload and analysis. A policy knob, not a correctness requirement.
	MaxResolution int `yaml:"max_resolution" env:"MAX_RESOLUTION" envDefault:"720"`
}

// GoogleConfig for the Gemini scene locator.
type GoogleConfig struct {
	APIKey       string        `yaml:"api_key"       env:"GOOGLE_API_KEY"`
	Model        string        `yaml:"model"         env:"GOOGLE_MODEL"         envDefault:"gemini-1.5-pro-latest"`
	PollInterval time.Duration `yaml:"poll_interval" env:"GOOGLE_POLL_INTERVAL" envDefault:"2s"`
	Timeout      time.Duration `yaml:"timeout"       env:"GOOGLE_TIMEOUT"       envDefault:"5m"`
}

// OpenAIConfig for the GPT location extractor.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
	// BaseURL overrides the API endpoint; empty means the public API.
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	// Model drives per-image mode; a reasoning model.
	Model           string `yaml:"model"            env:"OPENAI_MODEL"            envDefault:"o3"`
	ReasoningEffort string `yaml:"reasoning_effort" env:"OPENAI_REASONING_EFFORT" envDefault:"medium"`
	// BatchModel drives batched mode.
	BatchModel  string        `yaml:"batch_model" env:"OPENAI_BATCH_MODEL" envDefault:"gpt-4o"`
	Timeout     time.Duration `yaml:"timeout"     env:"OPENAI_TIMEOUT"     envDefault:"2m"`
	Concurrency int           `yaml:"concurrency" env:"OPENAI_CONCURRENCY" envDefault:"4"`
}

// AnthropicConfig for the optional Claude location extractor.
type AnthropicConfig struct {
	APIKey  string        `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model   string        `yaml:"model"   env:"ANTHROPIC_MODEL"   envDefault:"claude-3-5-sonnet-20241022"`
	Timeout time.Duration `yaml:"timeout" env:"ANTHROPIC_TIMEOUT" envDefault:"2m"`
}

// ExtractorConfig selects how captured frames are geolocated.
type ExtractorConfig struct {
	Provider string `yaml:"provider" env:"EXTRACTOR_PROVIDER" envDefault:"openai"`
	Mode     string `yaml:"mode"     env:"EXTRACTOR_MODE"     envDefault:"batched"`
}

// Load builds the configuration from the environment, then overlays the YAML
// file at path if one is given. Secrets in the file are written as ${VAR}
// references and expanded before parsing.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	return cfg, nil
}

// Validate enforces the startup contract: the process must not serve
// requests without the credentials its configured providers need.
func (c *Config) Validate() error {
	if c.Google.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}

	switch c.Extractor.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when extractor.provider is %q", ProviderOpenAI)
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when extractor.provider is %q", ProviderAnthropic)
		}
	default:
		return fmt.Errorf("unsupported extractor provider: %q (supported: %s, %s)",
			c.Extractor.Provider, ProviderOpenAI, ProviderAnthropic)
	}

	switch c.Extractor.Mode {
	case ModeBatched:
	case ModePerImage:
		if c.Extractor.Provider != ProviderOpenAI {
			return fmt.Errorf("extractor mode %q is only supported by the %s provider", ModePerImage, ProviderOpenAI)
		}
	default:
		return fmt.Errorf("unsupported extractor mode: %q (supported: %s, %s)",
			c.Extractor.Mode, ModeBatched, ModePerImage)
	}

	return nil
}

package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the LLM backend used to author lesson plans.
type Config struct {
	Provider string `yaml:"provider"`

	Anthropic  VendorConfig `yaml:"anthropic"`
	OpenAI     VendorConfig `yaml:"openai"`
	Gemini     VendorConfig `yaml:"gemini"`
	OpenRouter VendorConfig `yaml:"openrouter"`

	Retry RetryConfig `yaml:"retry"`

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration `yaml:"timeout"`
}

// VendorConfig is the per-vendor credential and model choice. BaseURL is
// only honoured by OpenAI-compatible vendors.
type VendorConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// RetryConfig tunes the exponential backoff of WithRetry.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns the built-in defaults. Lesson plans are long, so the
// timeout is more generous than a chat call needs.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  VendorConfig{Model: "claude-haiku"},
		OpenAI:     VendorConfig{Model: "gpt-4o-mini"},
		Gemini:     VendorConfig{Model: "gemini-flash"},
		OpenRouter: VendorConfig{Model: "google/gemini-2.0-flash-exp", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 90 * time.Second,
	}
}

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "PENILAI_"

// ApplyEnv overlays PENILAI_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	set := func(name string, dst *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	set("LLM_PROVIDER", &cfg.Provider)
	for _, v := range cfg.vendors() {
		set(v.env+"_API_KEY", &v.cfg.APIKey)
		set(v.env+"_MODEL", &v.cfg.Model)
		set(v.env+"_BASE_URL", &v.cfg.BaseURL)
	}
	if s := os.Getenv(EnvPrefix + "LLM_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		}
	}
}

// ConfigFromEnv returns DefaultConfig with the environment applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// DiscoverConfig falls back to the vendors' own key variables when no
// PENILAI_* key is set. The first key found, in Gemini, OpenAI, Anthropic,
// OpenRouter order, selects the provider.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	if !cfg.discover() {
		return Config{}, false
	}
	return cfg, true
}

// Discover keeps cfg when its provider already has a key, otherwise it
// selects the first vendor whose own key variable is set (GEMINI_API_KEY,
// OPENAI_API_KEY, ...). It reports whether cfg ends up usable.
func (c *Config) Discover() bool {
	if c.HasKey() {
		return true
	}
	return c.discover()
}

func (c *Config) discover() bool {
	for _, v := range c.vendors() {
		if k := os.Getenv(v.env + "_API_KEY"); k != "" {
			c.Provider = v.name
			v.cfg.APIKey = k
			return true
		}
	}
	return false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	for _, v := range c.vendors() {
		if v.name != c.Provider {
			continue
		}
		if v.cfg.APIKey == "" {
			return fmt.Errorf("%s%s_API_KEY is required for the %s provider", EnvPrefix, v.env, v.name)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}

// HasKey reports whether the selected provider could be constructed.
func (c Config) HasKey() bool { return c.Validate() == nil }

type vendorEntry struct {
	name string
	env  string
	cfg  *VendorConfig
}

// vendors lists the configurable vendors in discovery order.
func (c *Config) vendors() []vendorEntry {
	return []vendorEntry{
		{ProviderGemini, "GEMINI", &c.Gemini},
		{ProviderOpenAI, "OPENAI", &c.OpenAI},
		{ProviderAnthropic, "ANTHROPIC", &c.Anthropic},
		{ProviderOpenRouter, "OPENROUTER", &c.OpenRouter},
	}
}

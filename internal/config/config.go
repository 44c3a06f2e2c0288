// Package config loads and saves finbot's TOML configuration. API keys are
// never part of the configuration; they are entered per session.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Providers accepted in [llm] provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all finbot configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	LLM        LLMConfig        `toml:"llm"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency string `toml:"currency"`
	Market   string `toml:"market"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file,omitempty"`
}

// LLMConfig selects the model provider. The model identifier is fixed per
// provider unless overridden here.
type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds `finbot serve` settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "₹",
			Market:   "Indian",
			LogLevel: "info",
		},
		LLM: LLMConfig{
			Provider: ProviderGemini,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8411",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "finbot")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "finbot")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogPath returns the log file path, defaulting to finbot.log in the config dir.
func LogPath(cfg Config) string {
	if cfg.General.LogFile != "" {
		return cfg.General.LogFile
	}
	return filepath.Join(ConfigDir(), "finbot.log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects values no component can use.
func (c Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("config: unknown llm provider %q (want %q or %q)", c.LLM.Provider, ProviderGemini, ProviderOpenAI)
	}
	switch strings.ToLower(c.General.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.General.LogLevel)
	}
	if strings.TrimSpace(c.General.Currency) == "" {
		return fmt.Errorf("config: currency must not be empty")
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

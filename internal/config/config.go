package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rail44/roster/internal/api"
)

// FileName is the config file searched for upward from the working directory
const FileName = "roster.toml"

// Config represents the complete configuration for roster
type Config struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
	LogLevel string   `toml:"log_level"`
	Output   string   `toml:"output"`
	Plain    bool     `toml:"-"` // CLI flag, not from config file

	Greeter GreeterConfig `toml:"greeter"`
	Store   StoreConfig   `toml:"store"`

	// path of the file the config was read from, empty for defaults
	path string
}

// GreeterConfig selects how users are greeted
type GreeterConfig struct {
	Kind        string `toml:"kind"` // plain or ollama
	Model       string `toml:"model"`
	Host        string `toml:"host"`
	Concurrency int    `toml:"concurrency"`
}

// StoreConfig selects where synced users are persisted
type StoreConfig struct {
	Driver string `toml:"driver"` // sqlite or spanner
	DSN    string `toml:"dsn"`    // file path for sqlite, database name for spanner
	Table  string `toml:"table"`
}

// Duration decodes TOML strings such as "15s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

var outputs = []string{"table", "json", "yaml", "markdown", "plain"}

// Default returns the configuration used when no roster.toml exists
func Default() *Config {
	return &Config{
		Endpoint: api.DefaultRoot,
		Timeout:  Duration{30 * time.Second},
		LogLevel: "info",
		Output:   "table",
		Greeter: GreeterConfig{
			Kind:        "plain",
			Model:       "llama3.2",
			Concurrency: 4,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "roster.db",
			Table:  "users",
		},
	}
}

// Load loads configuration from roster.toml found at or above startPath.
// A missing file yields Default(). Call Validate once overrides are applied.
func Load(startPath string) (*Config, error) {
	configPath, err := findConfigFile(startPath)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from an explicit path
func LoadFile(configPath string) (*Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(configData), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.path = configPath

	// Relative sqlite paths are relative to the config file
	if cfg.Store.Driver == "sqlite" {
		cfg.Store.DSN = normalizePath(cfg.Store.DSN, filepath.Dir(configPath))
	}

	return cfg, nil
}

// Path returns the file the config was loaded from, or "" for defaults
func (c *Config) Path() string {
	return c.path
}

// findConfigFile searches for roster.toml starting from the given path
func findConfigFile(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	currentDir := absPath
	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR_NAME} environment variables in the string
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		value := os.Getenv(match[2 : len(match)-1])
		if value == "" {
			// Keep original if not set (caught in validation)
			return match
		}
		return value
	})
}

// unsetEnvVar returns the first ${VAR} in s whose variable is not set
func unsetEnvVar(s string) string {
	for _, m := range envPattern.FindAllStringSubmatch(s, -1) {
		if os.Getenv(m[1]) == "" {
			return m[1]
		}
	}
	return ""
}

// Validate checks that all fields hold usable values. Loading does not
// validate so CLI overrides can replace bad file values first.
func (c *Config) Validate() error {
	var errors []string

	if c.Endpoint == "" {
		errors = append(errors, "endpoint is required")
	} else if u, err := url.Parse(c.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("endpoint %q must be an absolute http(s) URL", c.Endpoint))
	}

	if !contains(outputs, c.Output) {
		errors = append(errors, fmt.Sprintf("output must be one of %s", strings.Join(outputs, ", ")))
	}

	switch c.Greeter.Kind {
	case "plain", "ollama":
	default:
		errors = append(errors, fmt.Sprintf("greeter.kind %q must be plain or ollama", c.Greeter.Kind))
	}
	if c.Greeter.Concurrency < 1 {
		errors = append(errors, "greeter.concurrency must be at least 1")
	}

	switch c.Store.Driver {
	case "", "sqlite", "spanner":
	default:
		errors = append(errors, fmt.Sprintf("store.driver %q must be sqlite or spanner", c.Store.Driver))
	}

	if c.Timeout.Duration < 0 {
		errors = append(errors, "timeout must not be negative")
	}

	for field, value := range map[string]string{"store.dsn": c.Store.DSN, "greeter.host": c.Greeter.Host} {
		if name := unsetEnvVar(value); name != "" {
			return fmt.Errorf("environment variable %s is not set (required by %s in %s)", name, field, FileName)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errors, ", "))
	}
	return nil
}

// normalizePath converts relative paths to absolute paths based on config file location
func normalizePath(path, configDir string) string {
	if path == "" || filepath.IsAbs(path) || strings.Contains(path, "${") || path == ":memory:" {
		return path
	}
	return filepath.Join(configDir, path)
}

// GetStoreDSN returns the store DSN with environment variables expanded
func (c *Config) GetStoreDSN() string {
	return expandEnvVars(c.Store.DSN)
}

// GetGreeterHost returns the greeter host with environment variables expanded
func (c *Config) GetGreeterHost() string {
	return expandEnvVars(c.Greeter.Host)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

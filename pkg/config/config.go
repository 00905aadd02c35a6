package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Run modes for the checkpoint file.
const (
	ModeOverwrite = "overwrite"
	ModeAppend    = "append"
	ModeUnique    = "unique"
)

// Config holds all configuration for the roster scraper.
type Config struct {
	// Registrar site endpoints
	Registrar RegistrarConfig `yaml:"registrar" json:"registrar"`

	// Scrape loop parameters
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// RegistrarConfig identifies the course-schedule site being scraped.
type RegistrarConfig struct {
	BaseURL  string `yaml:"base_url" json:"base_url"`
	Term     string `yaml:"term" json:"term"`
	LoginURL string `yaml:"login_url" json:"login_url"`
}

// ScrapeConfig holds the loop parameters. Start is inclusive, End is
// exclusive.
type ScrapeConfig struct {
	Start           int           `yaml:"start" json:"start"`
	End             int           `yaml:"end" json:"end"`
	Delay           time.Duration `yaml:"delay" json:"delay"`
	CheckpointEvery int           `yaml:"checkpoint_every" json:"checkpoint_every"`
	Mode            string        `yaml:"mode" json:"mode"`
}

// BrowserConfig holds chromedp session settings. Headless defaults to
// false because the operator completes the login interactively.
type BrowserConfig struct {
	ExecPath   string        `yaml:"exec_path" json:"exec_path"`
	Headless   bool          `yaml:"headless" json:"headless"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent"`
	NavTimeout time.Duration `yaml:"nav_timeout" json:"nav_timeout"`
	WindowSize string        `yaml:"window_size" json:"window_size"`
}

// OutputConfig holds checkpoint file settings.
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	File      string `yaml:"file" json:"file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config with sensible defaults. The range and
// cadence defaults mirror the full course-number space.
func DefaultConfig() *Config {
	return &Config{
		Registrar: RegistrarConfig{
			BaseURL:  "https://utdirect.utexas.edu/apps/registrar/course_schedule",
			Term:     "20259",
			LoginURL: "https://utdirect.utexas.edu/",
		},
		Scrape: ScrapeConfig{
			Start:           0,
			End:             100000,
			Delay:           100 * time.Millisecond,
			CheckpointEvery: 1000,
			Mode:            ModeOverwrite,
		},
		Browser: BrowserConfig{
			Headless:   false,
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			NavTimeout: 15 * time.Second,
			WindowSize: "1920,1080",
		},
		Output: OutputConfig{
			Directory: ".",
			File:      "instructors.csv",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv overrides configuration from ROSTER_* environment
// variables.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("ROSTER_BASE_URL"); v != "" {
		c.Registrar.BaseURL = v
	}
	if v := os.Getenv("ROSTER_TERM"); v != "" {
		c.Registrar.Term = v
	}
	if v := os.Getenv("ROSTER_LOGIN_URL"); v != "" {
		c.Registrar.LoginURL = v
	}
	if v := os.Getenv("ROSTER_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Scrape.Delay = d
		}
	}
	if v := os.Getenv("ROSTER_CHECKPOINT_EVERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scrape.CheckpointEvery = n
		}
	}
	if v := os.Getenv("ROSTER_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("ROSTER_OUTPUT_FILE"); v != "" {
		c.Output.File = v
	}
	if v := os.Getenv("ROSTER_CHROME_PATH"); v != "" {
		c.Browser.ExecPath = v
	}
	if v := os.Getenv("ROSTER_HEADLESS"); v != "" {
		c.Browser.Headless = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("ROSTER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. An empty path
// searches the standard locations; a missing file is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".rosterscraper.yaml",
		".rosterscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "rosterscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".rosterscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// MergeFlags merges command line flag values into the configuration.
func (c *Config) MergeFlags(flags map[string]interface{}) {
	if v, ok := flags["start"].(int); ok {
		c.Scrape.Start = v
	}
	if v, ok := flags["end"].(int); ok {
		c.Scrape.End = v
	}
	if v, ok := flags["delay"].(time.Duration); ok {
		c.Scrape.Delay = v
	}
	if v, ok := flags["checkpoint-every"].(int); ok && v > 0 {
		c.Scrape.CheckpointEvery = v
	}
	if v, ok := flags["mode"].(string); ok && v != "" {
		c.Scrape.Mode = v
	}
	if v, ok := flags["term"].(string); ok && v != "" {
		c.Registrar.Term = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.File = v
	}
	if v, ok := flags["output-dir"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Registrar.BaseURL == "" {
		errs = append(errs, errors.New("registrar base URL is required"))
	}
	if c.Registrar.Term == "" {
		errs = append(errs, errors.New("registrar term is required"))
	}

	if c.Scrape.Start < 0 || c.Scrape.Start > 99999 {
		errs = append(errs, errors.New("start must be within 0-99999"))
	}
	if c.Scrape.End <= c.Scrape.Start || c.Scrape.End > 100000 {
		errs = append(errs, errors.New("end must be greater than start and at most 100000"))
	}
	if c.Scrape.Delay < 0 {
		errs = append(errs, errors.New("delay cannot be negative"))
	}
	if c.Scrape.CheckpointEvery <= 0 {
		errs = append(errs, errors.New("checkpoint cadence must be positive"))
	}
	switch c.Scrape.Mode {
	case ModeOverwrite, ModeAppend, ModeUnique:
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q", c.Scrape.Mode))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.File == "" {
		errs = append(errs, errors.New("output file is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence:
// command line flags > environment variables > .env file > config
// file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".rosterscraper.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load envs from .env
// Load YAML config
// Apply env overrides and default values
// Validate config

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go-jobwatch/internal/errors"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "configs/config.yaml"

	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	OnLoadErrorReset = "reset"
	OnLoadErrorFail  = "fail"
)

// Source is one search page to poll and the category label its jobs get.
type Source struct {
	URL   string `yaml:"url"`
	Label string `yaml:"label"`
}

type StateConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	DSN         string `yaml:"dsn"`
	OnLoadError string `yaml:"on_load_error"`
	LockPath    string `yaml:"lock_path"`
}

type NotifyConfig struct {
	Interval          time.Duration `yaml:"interval"`
	MarkSeenOnFailure bool          `yaml:"mark_seen_on_failure"`
	SendSummary       bool          `yaml:"send_summary"`
}

type BrowserConfig struct {
	Headless          *bool         `yaml:"headless"`
	UserAgent         string        `yaml:"user_agent"`
	Locale            string        `yaml:"locale"`
	ViewportWidth     int           `yaml:"viewport_width"`
	ViewportHeight    int           `yaml:"viewport_height"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	CardsTimeout      time.Duration `yaml:"cards_timeout"`
	CookiesPath       string        `yaml:"cookies_path"`
	ScreenshotDir     string        `yaml:"screenshot_dir"`
}

type Config struct {
	TelegramToken string `yaml:"telegram_token"`
	// numeric chat ID or @channelusername
	TelegramChatID string `yaml:"telegram_chat_id"`

	Sources []Source `yaml:"sources"`

	State   StateConfig   `yaml:"state"`
	Notify  NotifyConfig  `yaml:"notify"`
	Browser BrowserConfig `yaml:"browser"`

	RunTimeout time.Duration `yaml:"run_timeout"`
	LogLevel   string        `yaml:"log_level"`
}

// DefaultSources are the searches polled when the config file names none.
func DefaultSources() []Source {
	return []Source{
		{
			URL:   "https://www.jobsatamazon.co.uk/app#/jobSearch?query=Sortation%20Operative&locale=en-GB",
			Label: "Sortation Operative",
		},
		{
			URL:   "https://www.jobsatamazon.co.uk/app#/jobSearch?query=Warehouse%20Operative&locale=en-GB",
			Label: "Warehouse Operative",
		},
	}
}

// Load reads .env, then the YAML file at path (a missing file is not an
// error), then env overrides, fills defaults and validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	case os.IsNotExist(err):
		// built-in defaults only
	default:
		return nil, errors.Wrapf(err, "read %s", path)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file location, JOBWATCH_CONFIG or DefaultPath.
func Path() string {
	if p := os.Getenv("JOBWATCH_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func (c *Config) applyEnv() {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		c.TelegramChatID = chatID
	}

	if p := os.Getenv("JOBWATCH_STATE_PATH"); p != "" {
		c.State.Path = p
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.State.DSN = dsn
	}
	if lvl := os.Getenv("JOBWATCH_LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}
}

func (c *Config) applyDefaults() {
	c.TelegramChatID = strings.TrimSpace(c.TelegramChatID)

	if len(c.Sources) == 0 {
		c.Sources = DefaultSources()
	}

	if c.State.Backend == "" {
		c.State.Backend = BackendFile
	}
	if c.State.Path == "" {
		switch c.State.Backend {
		case BackendSQLite:
			c.State.Path = "seen_jobs.db"
		default:
			c.State.Path = "seen_jobs.json"
		}
	}
	if c.State.OnLoadError == "" {
		c.State.OnLoadError = OnLoadErrorReset
	}

	// zero means "not set"; a negative interval disables pacing
	if c.Notify.Interval == 0 {
		c.Notify.Interval = time.Second
	}

	if c.Browser.Headless == nil {
		headless := true
		c.Browser.Headless = &headless
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.Browser.Locale == "" {
		c.Browser.Locale = "en-GB"
	}
	if c.Browser.ViewportWidth == 0 {
		c.Browser.ViewportWidth = 1280
	}
	if c.Browser.ViewportHeight == 0 {
		c.Browser.ViewportHeight = 900
	}
	if c.Browser.NavigationTimeout == 0 {
		c.Browser.NavigationTimeout = 60 * time.Second
	}
	if c.Browser.CardsTimeout == 0 {
		c.Browser.CardsTimeout = 20 * time.Second
	}
	if c.Browser.ScreenshotDir == "" {
		c.Browser.ScreenshotDir = "logs/screenshots"
	}

	if c.RunTimeout == 0 {
		c.RunTimeout = 10 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramChatID == "" {
		return errors.New("TELEGRAM_CHAT_ID is required")
	}
	if !strings.HasPrefix(c.TelegramChatID, "@") {
		if _, err := strconv.ParseInt(c.TelegramChatID, 10, 64); err != nil {
			return errors.WithHint(
				errors.Newf("TELEGRAM_CHAT_ID: invalid chat %q", c.TelegramChatID),
				"use a numeric chat ID or @channelusername",
			)
		}
	} else if len(c.TelegramChatID) == 1 {
		return errors.New("TELEGRAM_CHAT_ID: channel username is empty")
	}

	for i, s := range c.Sources {
		if strings.TrimSpace(s.URL) == "" {
			return errors.Newf("sources[%d]: url is required", i)
		}
		if strings.TrimSpace(s.Label) == "" {
			return errors.Newf("sources[%d]: label is required", i)
		}
	}

	switch c.State.Backend {
	case BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.State.DSN == "" {
			return errors.WithHint(
				errors.New("state.dsn is required for the postgres backend"),
				"set state.dsn or DATABASE_URL",
			)
		}
	default:
		return errors.Newf("state.backend: unknown backend %q", c.State.Backend)
	}

	switch c.State.OnLoadError {
	case OnLoadErrorReset, OnLoadErrorFail:
	default:
		return errors.Newf("state.on_load_error: must be %q or %q, got %q",
			OnLoadErrorReset, OnLoadErrorFail, c.State.OnLoadError)
	}

	if c.RunTimeout < 0 {
		return errors.New("run_timeout must not be negative")
	}
	return nil
}

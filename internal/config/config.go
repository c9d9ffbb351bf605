// Package config holds the build context of one run: site settings, paths,
// the filter and template engine, and which aggregate pages to produce.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// DefaultConfigFile is read when no --config flag is given and it exists.
const DefaultConfigFile = "pagebuilder.yaml"

// Config is the build context. It is assembled once from the config file,
// the environment and command-line flags, validated, and then only read.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Filter    FilterConfig    `yaml:"filter"`
	Templates TemplatesConfig `yaml:"templates"`
	Paths     PathsConfig     `yaml:"paths"`
	Archive   ArchiveConfig   `yaml:"archive"`
	News      NewsConfig      `yaml:"news"`
	Feed      FeedConfig      `yaml:"feed"`
	Privacy   PrivacyConfig   `yaml:"privacy"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	History   HistoryConfig   `yaml:"history"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	// BaseURL is prefixed to every generated link; empty yields root-relative links.
	BaseURL string `yaml:"base_url"`
	// Owner is used for aggregate pages and the feed author. Defaults to the
	// login name of the current user.
	Owner string `yaml:"owner,omitempty"`
}

// FilterConfig selects the markup filter.
type FilterConfig struct {
	// Command is a program name run as `<command> <source path>`, or
	// "builtin:markdown".
	Command string `yaml:"command"`
}

// TemplatesConfig locates the header and footer templates.
type TemplatesConfig struct {
	Header string         `yaml:"header"`
	Footer string         `yaml:"footer"`
	Engine TemplateEngine `yaml:"engine"`
}

// PathsConfig holds the source and output roots.
type PathsConfig struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`
}

type ArchiveConfig struct {
	Enabled bool `yaml:"enabled"`
}

type NewsConfig struct {
	Mode NewsMode `yaml:"mode"`
}

type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title,omitempty"`
}

// PrivacyConfig controls whether page owners appear in aggregate pages.
type PrivacyConfig struct {
	HideUser bool `yaml:"hide_user"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// HistoryConfig enables the SQLite build history.
type HistoryConfig struct {
	Database string `yaml:"database,omitempty"`
}

// New returns a configuration populated with defaults only.
func New() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML file at configPath, expanding ${VAR} references from the
// environment, and applies defaults. An empty configPath yields the defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return New(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithCause(err).WithContext("path", configPath).Build()
		}
		return nil, ferrors.ConfigError("failed to read config file").
			WithCause(err).WithContext("path", configPath).Build()
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, ferrors.ConfigError("failed to unmarshal config").
			WithCause(err).WithContext("path", configPath).Build()
	}

	cfg, err := raw.normalize()
	if err != nil {
		return nil, ferrors.ConfigError("normalize config").
			WithCause(err).WithContext("path", configPath).Build()
	}
	applyDefaults(cfg)
	return cfg, nil
}

// rawConfig mirrors Config with enums as plain strings so they can be
// validated with a useful message instead of failing inside the decoder.
type rawConfig struct {
	Site      SiteConfig   `yaml:"site"`
	Filter    FilterConfig `yaml:"filter"`
	Templates struct {
		Header string `yaml:"header"`
		Footer string `yaml:"footer"`
		Engine string `yaml:"engine"`
	} `yaml:"templates"`
	Paths   PathsConfig   `yaml:"paths"`
	Archive ArchiveConfig `yaml:"archive"`
	News    struct {
		Mode string `yaml:"mode"`
	} `yaml:"news"`
	Feed    FeedConfig    `yaml:"feed"`
	Privacy PrivacyConfig `yaml:"privacy"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	History HistoryConfig `yaml:"history"`
}

func (r *rawConfig) normalize() (*Config, error) {
	engine, err := ParseTemplateEngine(r.Templates.Engine)
	if err != nil {
		return nil, err
	}
	mode, err := ParseNewsMode(r.News.Mode)
	if err != nil {
		return nil, err
	}
	level, err := ParseLogLevel(r.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseLogFormat(r.Logging.Format)
	if err != nil {
		return nil, err
	}

	return &Config{
		Site:   r.Site,
		Filter: r.Filter,
		Templates: TemplatesConfig{
			Header: r.Templates.Header,
			Footer: r.Templates.Footer,
			Engine: engine,
		},
		Paths:   r.Paths,
		Archive: r.Archive,
		News:    NewsConfig{Mode: mode},
		Feed:    r.Feed,
		Privacy: r.Privacy,
		Logging: LoggingConfig{Level: level, Format: format},
		Metrics: r.Metrics,
		History: r.History,
	}, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := New()
	example.Site.BaseURL = "https://example.com"
	example.Site.Owner = "webmaster"
	example.Archive.Enabled = true
	example.News.Mode = NewsModeHome
	example.Feed = FeedConfig{Enabled: true, Title: "Example site"}
	example.History.Database = ".pagebuilder/history.db"

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.InternalError("failed to marshal config").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write config file").
			WithCause(err).WithContext("path", configPath).Build()
	}
	return nil
}

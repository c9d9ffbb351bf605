package commands

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
)

// DefaultConfigFile is read when present; its absence is not an error.
const DefaultConfigFile = config.DefaultConfigFile

// LogLevelEnv overrides the configured log level unless -v is given.
const LogLevelEnv = "PAGEBUILDER_LOG_LEVEL"

// Global is shared state handed to every subcommand.
type Global struct {
	Context context.Context
	Stdout  io.Writer
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return io.Discard
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (optional)" default:"${config_file}"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	EnvFile []string         `name:"env-file" help:"Load environment variables from these files (default .env, .env.local)"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Build the site (default command)"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	History HistoryCmd `cmd:"" help:"List builds recorded in the history database"`
}

// AfterApply runs after flag parsing: env files first, so the log level
// variable may come from them.
func (c *CLI) AfterApply() error {
	loaded, err := config.LoadEnvFiles(c.EnvFile...)
	configureLogging(c.Verbose, config.LogLevelInfo, config.LogFormatText)
	if err != nil {
		return err
	}
	for _, f := range loaded {
		slog.Debug("Loaded environment file", "path", f)
	}
	return nil
}

// loadConfig reads the configuration file and reconfigures logging from it.
// The default file name is optional; an explicitly named file must exist.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.Config
	if path == DefaultConfigFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	configureLogging(c.Verbose, cfg.Logging.Level, cfg.Logging.Format)
	if path != "" {
		slog.Debug("Loaded configuration", "path", path)
	}
	return cfg, nil
}

// configureLogging installs the process logger. Precedence for the level:
// -v, then PAGEBUILDER_LOG_LEVEL, then the configured level.
func configureLogging(verbose bool, level config.LogLevel, format config.LogFormat) {
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = config.NormalizeLogLevel(env)
	}
	if verbose {
		level = config.LogLevelDebug
	}
	logger := observability.NewLogger(os.Stderr, level.SlogLevel(), format == config.LogFormatJSON)
	slog.SetDefault(logger)
}

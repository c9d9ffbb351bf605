package config

import (
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// ErrMissingFeedTitle is the message used when a feed is requested without a title.
const ErrMissingFeedTitle = "no feed title specified, use -t title"

// Validate checks the assembled configuration.
func Validate(cfg *Config) error {
	if cfg.Feed.Enabled && strings.TrimSpace(cfg.Feed.Title) == "" {
		return ferrors.ConfigError(ErrMissingFeedTitle).Build()
	}
	if _, err := ParseNewsMode(string(cfg.News.Mode)); err != nil {
		return ferrors.ConfigError("invalid news mode").WithCause(err).Build()
	}
	if _, err := ParseTemplateEngine(string(cfg.Templates.Engine)); err != nil {
		return ferrors.ConfigError("invalid template engine").WithCause(err).Build()
	}
	if strings.TrimSpace(cfg.Filter.Command) == "" {
		return ferrors.ConfigError("filter command cannot be empty").Build()
	}
	if cfg.Templates.Header == "" || cfg.Templates.Footer == "" {
		return ferrors.ConfigError("header and footer templates must be set").Build()
	}
	return validatePaths(cfg.Paths)
}

func validatePaths(p PathsConfig) error {
	if p.Source == "" || p.Output == "" {
		return ferrors.ConfigError("source and output directories must be set").Build()
	}
	src, err := filepath.Abs(p.Source)
	if err != nil {
		return ferrors.ConfigError("resolve source directory").WithCause(err).Build()
	}
	out, err := filepath.Abs(p.Output)
	if err != nil {
		return ferrors.ConfigError("resolve output directory").WithCause(err).Build()
	}
	if src == out {
		return ferrors.ConfigError("source and output directories must differ").
			WithContext("path", src).Build()
	}
	if rel, err := filepath.Rel(src, out); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ferrors.ConfigError("output directory must not be inside the source directory").
			WithContext("source", src).WithContext("output", out).Build()
	}
	return nil
}

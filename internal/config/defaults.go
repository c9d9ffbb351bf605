package config

import "os/user"

const (
	DefaultFilter     = "cat"
	DefaultSourceDir  = "./src"
	DefaultOutputDir  = "./build"
	DefaultHeaderFile = "header.html"
	DefaultFooterFile = "footer.html"
	unknownOwner      = "unknown"
)

var currentUsername = func() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return unknownOwner
	}
	return u.Username
}

func applyDefaults(cfg *Config) {
	if cfg.Filter.Command == "" {
		cfg.Filter.Command = DefaultFilter
	}
	if cfg.Paths.Source == "" {
		cfg.Paths.Source = DefaultSourceDir
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = DefaultOutputDir
	}
	if cfg.Templates.Header == "" {
		cfg.Templates.Header = DefaultHeaderFile
	}
	if cfg.Templates.Footer == "" {
		cfg.Templates.Footer = DefaultFooterFile
	}
	if cfg.Templates.Engine == "" {
		cfg.Templates.Engine = TemplateEngineBuiltin
	}
	if cfg.News.Mode == "" {
		cfg.News.Mode = NewsModeOff
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Site.Owner == "" {
		cfg.Site.Owner = currentUsername()
	}
}

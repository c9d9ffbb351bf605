package config

// Overrides carries command-line settings. Zero values leave the loaded
// configuration untouched, so flags can only switch features on.
type Overrides struct {
	Archive   bool
	BaseURL   string
	Feed      bool
	FeedTitle string
	News      NewsMode
	Filter    string
	HideUser  bool
	Source    string
	Output    string
	Header    string
	Footer    string
	Engine    TemplateEngine
	Verbose   bool
}

// Apply merges o into cfg; flags win over file values.
func (o Overrides) Apply(cfg *Config) {
	if o.Archive {
		cfg.Archive.Enabled = true
	}
	if o.BaseURL != "" {
		cfg.Site.BaseURL = o.BaseURL
	}
	if o.Feed {
		cfg.Feed.Enabled = true
	}
	if o.FeedTitle != "" {
		cfg.Feed.Title = o.FeedTitle
	}
	if o.News != "" {
		cfg.News.Mode = o.News
	}
	if o.Filter != "" {
		cfg.Filter.Command = o.Filter
	}
	if o.HideUser {
		cfg.Privacy.HideUser = true
	}
	if o.Source != "" {
		cfg.Paths.Source = o.Source
	}
	if o.Output != "" {
		cfg.Paths.Output = o.Output
	}
	if o.Header != "" {
		cfg.Templates.Header = o.Header
	}
	if o.Footer != "" {
		cfg.Templates.Footer = o.Footer
	}
	if o.Engine != "" {
		cfg.Templates.Engine = o.Engine
	}
	if o.Verbose {
		cfg.Logging.Level = LogLevelDebug
	}
}

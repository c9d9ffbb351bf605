package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/eventstore"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
)

// BuildCmd implements the 'build' command. Its short flags are the classic
// single-letter options.
type BuildCmd struct {
	Archive   bool   `short:"a" help:"Generate archive.html listing every page"`
	BaseURL   string `short:"b" name:"base-url" help:"URL prefix for links in the archive, news and feed"`
	Feed      bool   `short:"f" help:"Generate an Atom feed (atom.xml)"`
	FeedTitle string `short:"t" name:"feed-title" help:"Feed title, required with --feed"`
	News      bool   `short:"n" xor:"news" help:"Generate news.html from the newest pages"`
	NewsHome  bool   `short:"H" name:"news-home" xor:"news" help:"Generate the news digest as the home page (index.html)"`
	Filter    string `short:"p" help:"Program converting each source file to HTML (builtin:markdown for the embedded converter)"`
	HideUser  bool   `short:"u" name:"hide-user" help:"Do not show page owners in the archive"`

	Source string `help:"Source tree" type:"path"`
	Output string `help:"Output tree, must not exist inside the source tree" type:"path"`
	Header string `help:"Header template" type:"path"`
	Footer string `help:"Footer template" type:"path"`
	Engine string `help:"Template engine (builtin|sed)"`
}

// Overrides maps the flags onto configuration overrides.
func (b *BuildCmd) Overrides(verbose bool) (config.Overrides, error) {
	o := config.Overrides{
		Archive:   b.Archive,
		BaseURL:   b.BaseURL,
		Feed:      b.Feed,
		FeedTitle: b.FeedTitle,
		Filter:    b.Filter,
		HideUser:  b.HideUser,
		Source:    b.Source,
		Output:    b.Output,
		Header:    b.Header,
		Footer:    b.Footer,
		Verbose:   verbose,
	}
	switch {
	case b.News:
		o.News = config.NewsModePage
	case b.NewsHome:
		o.News = config.NewsModeHome
	}
	if b.Engine != "" {
		engine, err := config.ParseTemplateEngine(b.Engine)
		if err != nil {
			return o, err
		}
		o.Engine = engine
	}
	return o, nil
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	overrides, err := b.Overrides(root.Verbose)
	if err != nil {
		return err
	}
	overrides.Apply(cfg)
	return RunBuild(g, cfg)
}

// RunBuild builds the site described by cfg, recording history and metrics
// when they are configured.
func RunBuild(g *Global, cfg *config.Config) error {
	out := g.stdout()
	_, _ = fmt.Fprintln(out, "Starting build")

	svc := build.NewBuildService().WithProgress(out)

	var recorder *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		svc.WithRecorder(recorder)
	}

	if cfg.History.Database != "" {
		store, err := eventstore.NewSQLiteStore(cfg.History.Database)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				slog.Warn("Failed to close history database", "error", cerr)
			}
		}()
		svc.WithEventStore(store)
	}

	result, err := svc.Run(g.ctx(), build.BuildRequest{Config: cfg})

	if recorder != nil {
		if werr := recorder.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			slog.Warn("Failed to write metrics", "path", cfg.Metrics.Textfile, "error", werr)
		}
	}
	if err != nil {
		return err
	}

	slog.Info("Site generated",
		"output", result.OutputPath,
		"pages", result.Pages,
		"artifacts", len(result.Artifacts),
		"build_id", result.BuildID)
	_, _ = fmt.Fprintln(out, "Build completed successfully")
	return nil
}

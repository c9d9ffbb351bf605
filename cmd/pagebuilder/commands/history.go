package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/eventstore"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit    int    `short:"l" default:"20" help:"Number of builds to list"`
	Database string `help:"History database (default: history.database from the config)" type:"path"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	db := h.Database
	if db == "" {
		cfg, err := root.loadConfig()
		if err != nil {
			return err
		}
		db = cfg.History.Database
	}
	if db == "" {
		return ferrors.ConfigError("no history database configured (set history.database or --database)").Build()
	}

	out := g.stdout()
	if _, err := os.Stat(db); errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(out, "No builds recorded")
		return nil
	}

	store, err := eventstore.NewSQLiteStore(db)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	projection := eventstore.NewBuildHistoryProjection(store, h.Limit)
	if err := projection.Rebuild(g.ctx()); err != nil {
		return err
	}
	history := projection.GetHistory()
	if len(history) == 0 {
		_, _ = fmt.Fprintln(out, "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTATUS\tSTARTED\tDURATION\tPAGES\tERROR")
	for _, s := range history {
		errText := ""
		if s.ErrorStage != "" {
			errText = s.ErrorStage + ": " + s.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.BuildID,
			s.Status,
			s.StartedAt.UTC().Format(time.RFC3339),
			s.Duration.Round(time.Millisecond),
			s.Pages,
			errText)
	}
	return tw.Flush()
}

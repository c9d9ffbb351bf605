// Package main is the pagebuilder command line entry point.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagebuilder/cmd/pagebuilder/commands"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("pagebuilder"),
		kong.Description("Build a static website from a source tree, a filter program and header/footer templates."),
		kong.UsageOnError(),
		kong.Vars{
			"version":     version.String(),
			"config_file": commands.DefaultConfigFile,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Context: ctx, Stdout: os.Stdout}, cli)
	stop()
	if err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}

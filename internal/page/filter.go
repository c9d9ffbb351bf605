package page

import (
	"bytes"
	"context"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/pipe"
)

// BuiltinMarkdown selects the in-process Markdown converter instead of an
// external filter program.
const BuiltinMarkdown = "builtin:markdown"

// Filter converts one source file into an HTML body fragment.
type Filter interface {
	Convert(ctx context.Context, sourcePath string) ([]byte, error)
}

// NewFilter returns the filter named by command. The command is a program
// name looked up on PATH and run with the source path as its only argument;
// it is not split on whitespace.
func NewFilter(command string, runner pipe.Runner) Filter {
	if command == BuiltinMarkdown {
		return NewMarkdownFilter()
	}
	return NewCommandFilter(command, runner)
}

// CommandFilter runs an external program and captures its stdout.
type CommandFilter struct {
	command string
	runner  pipe.Runner
}

func NewCommandFilter(command string, runner pipe.Runner) *CommandFilter {
	if runner == nil {
		runner = pipe.NewExecRunner()
	}
	return &CommandFilter{command: command, runner: runner}
}

func (f *CommandFilter) Convert(ctx context.Context, sourcePath string) ([]byte, error) {
	return f.runner.Run(ctx, pipe.NewArgs(f.command).Add(sourcePath).Build())
}

// MarkdownFilter renders CommonMark with GitHub extensions using goldmark.
type MarkdownFilter struct {
	md goldmark.Markdown
}

func NewMarkdownFilter() *MarkdownFilter {
	return &MarkdownFilter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

func (f *MarkdownFilter) Convert(_ context.Context, sourcePath string) ([]byte, error) {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read source").
			Fatal().WithContext("path", sourcePath).Build()
	}
	var buf bytes.Buffer
	if err := f.md.Convert(src, &buf); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFormat, "render markdown").
			Fatal().WithContext("path", sourcePath).Build()
	}
	return buf.Bytes(), nil
}

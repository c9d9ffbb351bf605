// Package templates renders the shared header and footer by substituting
// ${...} placeholders.
package templates

import (
	"context"
	"os"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/pipe"
)

// Name identifies one of the two templates.
type Name string

const (
	Header Name = "header"
	Footer Name = "footer"
)

// Engine substitutes placeholders in the template file at path.
type Engine interface {
	Render(ctx context.Context, path string, v Values) ([]byte, error)
}

// Renderer maps template names to files and renders them with an Engine.
type Renderer struct {
	paths  map[Name]string
	engine Engine
}

func NewRenderer(headerPath, footerPath string, engine Engine) *Renderer {
	return &Renderer{
		paths:  map[Name]string{Header: headerPath, Footer: footerPath},
		engine: engine,
	}
}

// NewRendererFromConfig selects the engine configured in cfg.
func NewRendererFromConfig(cfg *config.Config, runner pipe.Runner) *Renderer {
	var engine Engine = BuiltinEngine{}
	if cfg.Templates.Engine == config.TemplateEngineSed {
		engine = NewSedEngine(runner)
	}
	return NewRenderer(cfg.Templates.Header, cfg.Templates.Footer, engine)
}

// Render renders one template.
func (r *Renderer) Render(ctx context.Context, name Name, v Values) ([]byte, error) {
	path, ok := r.paths[name]
	if !ok {
		return nil, ferrors.TemplateError("unknown template").WithContext("template", string(name)).Build()
	}
	return r.engine.Render(ctx, path, v)
}

// RenderPair renders header and footer with the same values.
func (r *Renderer) RenderPair(ctx context.Context, v Values) (header, footer []byte, err error) {
	if header, err = r.Render(ctx, Header, v); err != nil {
		return nil, nil, err
	}
	if footer, err = r.Render(ctx, Footer, v); err != nil {
		return nil, nil, err
	}
	return header, footer, nil
}

// BuiltinEngine substitutes in process.
type BuiltinEngine struct{}

func (BuiltinEngine) Render(_ context.Context, path string, v Values) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read template").
			Fatal().WithContext("template", path).Build()
	}
	return []byte(strings.NewReplacer(v.Pairs()...).Replace(string(data))), nil
}

// SedEngine runs `sed -e 's|${name}|value|g' ... <template>` through the text
// pipe.
type SedEngine struct {
	runner pipe.Runner
}

func NewSedEngine(runner pipe.Runner) *SedEngine {
	if runner == nil {
		runner = pipe.NewExecRunner()
	}
	return &SedEngine{runner: runner}
}

func (e *SedEngine) Render(ctx context.Context, path string, v Values) ([]byte, error) {
	return e.runner.Run(ctx, SedInvocation(path, v))
}

// SedInvocation builds the sed command line for path.
func SedInvocation(path string, v Values) pipe.Invocation {
	args := pipe.NewArgs("sed")
	pairs := v.Pairs()
	for i := 0; i < len(pairs); i += 2 {
		args.Add("-e").Addf("s|%s|%s|g", pairs[i], sedReplacementEscaper.Replace(pairs[i+1]))
	}
	return args.Add(path).Build()
}

var sedReplacementEscaper = strings.NewReplacer(
	`\`, `\\`,
	`&`, `\&`,
	`|`, `\|`,
	"\n", `\n`,
)

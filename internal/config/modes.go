package config

import "git.home.luguber.info/inful/pagebuilder/internal/foundation/normalization"

// NewsMode selects where the news digest is written.
type NewsMode string

const (
	NewsModeOff  NewsMode = "off"
	NewsModePage NewsMode = "page" // news.html
	NewsModeHome NewsMode = "home" // index.html, replacing the page built from the source tree
)

var newsModeNormalizer = normalization.NewNormalizer("news mode", map[string]NewsMode{
	"off":  NewsModeOff,
	"page": NewsModePage,
	"home": NewsModeHome,
}, NewsModeOff)

func ParseNewsMode(raw string) (NewsMode, error) {
	return newsModeNormalizer.Parse(raw)
}

// Enabled reports whether a digest is produced at all.
func (m NewsMode) Enabled() bool {
	return m == NewsModePage || m == NewsModeHome
}

// OutputName is the digest file name relative to the output root.
func (m NewsMode) OutputName() string {
	if m == NewsModeHome {
		return "index.html"
	}
	return "news.html"
}

// TemplateEngine selects how placeholders are substituted.
type TemplateEngine string

const (
	TemplateEngineBuiltin TemplateEngine = "builtin"
	TemplateEngineSed     TemplateEngine = "sed"
)

var templateEngineNormalizer = normalization.NewNormalizer("template engine", map[string]TemplateEngine{
	"builtin": TemplateEngineBuiltin,
	"sed":     TemplateEngineSed,
}, TemplateEngineBuiltin)

func ParseTemplateEngine(raw string) (TemplateEngine, error) {
	return templateEngineNormalizer.Parse(raw)
}

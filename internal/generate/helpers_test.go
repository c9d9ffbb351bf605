package generate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
	"git.home.luguber.info/inful/pagebuilder/internal/templates"
)

var testNow = time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)

func newTestGenerator(t *testing.T) (*Generator, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.Site.BaseURL = "https://example.com"
	cfg.Site.Owner = "webmaster"
	cfg.Paths.Output = filepath.Join(dir, "build")
	cfg.Templates.Header = filepath.Join(dir, "header.html")
	cfg.Templates.Footer = filepath.Join(dir, "footer.html")
	require.NoError(t, os.MkdirAll(cfg.Paths.Output, 0o750))
	require.NoError(t, os.WriteFile(cfg.Templates.Header, []byte("<html><head><title>${title}</title></head><body>\n"), 0o600))
	require.NoError(t, os.WriteFile(cfg.Templates.Footer, []byte("<footer>${created}</footer></body></html>\n"), 0o600))

	renderer := templates.NewRenderer(cfg.Templates.Header, cfg.Templates.Footer, templates.BuiltinEngine{})
	g := New(cfg, renderer).WithClock(func() time.Time { return testNow })
	return g, cfg
}

// collection builds n pages, newest first.
func collection(n int, body string) *page.Collection {
	c := page.NewCollection()
	for i := range n {
		c.Append(&page.Page{
			OutputPath: fmt.Sprintf("/posts/p%02d.html", i),
			Title:      fmt.Sprintf("post %d", i),
			Body:       []byte(body),
			Created:    page.NewTimestamp(testNow.Add(-time.Duration(i) * time.Hour)),
			Modified:   page.NewTimestamp(testNow.Add(-time.Duration(i) * time.Minute)),
			User:       "alice",
		})
	}
	return c
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Paths.Output, rel))
	require.NoError(t, err)
	return string(data)
}

func parseHTML(t *testing.T, doc string) *html.Node {
	t.Helper()
	n, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return n
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func isElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

func hasClass(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if !isElement(tag)(n) {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == "class" && strings.Contains(" "+a.Val+" ", " "+class+" ") {
				return true
			}
		}
		return false
	}
}

func textOf(n *html.Node) string {
	var b bytes.Buffer
	for _, t := range findAll(n, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		b.WriteString(t.Data)
	}
	return b.String()
}

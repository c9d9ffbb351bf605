package generate

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     string
		wantMore bool
	}{
		{"single paragraph", "<p>one</p>\n", "<p>one</p>", false},
		{"two paragraphs", "<p>one</p>\n<p>two</p>\n", "<p>one</p>", true},
		{"leading heading", "<h1>Title</h1>\n<p>one</p>\n<p>two</p>", "\n<p>one</p>", true},
		{"heading not first", "<p>one</p><h2>x</h2>", "<p>one</p>", false},
		{"no paragraph", "plain text", "plain text", false},
		{"unclosed heading", "<h1>Title", "<h1>Title", false},
		{"heading at end", "<h1>T</h", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, more := Preview([]byte(tt.body))
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantMore, more)
		})
	}
}

func TestPreviewProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	fragment := gen.OneConstOf("<p>", "</p>", "<h1>", "</h1>", "<h2>", "</h2>", "text", "\n", " ")
	body := gen.SliceOf(fragment).Map(func(parts []string) string {
		var b bytes.Buffer
		for _, p := range parts {
			b.WriteString(p)
		}
		return b.String()
	})

	properties.Property("preview is a slice of the body", prop.ForAll(
		func(s string) bool {
			got, _ := Preview([]byte(s))
			return len(got) <= len(s) && bytes.Contains([]byte(s), got)
		},
		body,
	))

	properties.Property("preview holds at most one closing paragraph", prop.ForAll(
		func(s string) bool {
			got, _ := Preview([]byte(s))
			return bytes.Count(got, []byte("</p>")) <= 1
		},
		body,
	))

	properties.TestingRun(t)
}

func TestNews_LimitsAndMarkup(t *testing.T) {
	g, cfg := newTestGenerator(t)
	cfg.News.Mode = config.NewsModePage

	art, err := g.News(t.Context(), collection(25, "<h1>T</h1>\n<p>first</p>\n<p>second</p>\n"))
	require.NoError(t, err)
	assert.Equal(t, "news.html", art.Path)
	assert.Equal(t, NewsLimit, art.Pages)

	out := readOutput(t, cfg, "news.html")
	doc := parseHTML(t, out)
	articles := findAll(doc, hasClass("article", "preview"))
	require.Len(t, articles, NewsLimit)
	assert.Len(t, findAll(doc, hasClass("p", "cont")), NewsLimit)

	assert.Contains(t, out, "<article class=\"preview\">\n<h2><a href=\"https://example.com/posts/p00.html\">post 0</a></h2>\n"+
		"<p class=\"byline\">Created <date datetime=\"2025-06-07T08:09:10Z\">2025-06-07 08:09 UTC</date> by alice</p>\n"+
		"\n<p>first</p>\n<p class=\"cont\"><em>Continued...</em></p>\n</article>\n")
	assert.NotContains(t, out, "second")
	assert.NotContains(t, out, "post 10")
	assert.Contains(t, out, "<title>News</title>")
}

func TestNews_HomeModeAndHiddenUser(t *testing.T) {
	g, cfg := newTestGenerator(t)
	cfg.News.Mode = config.NewsModeHome
	cfg.Privacy.HideUser = true

	art, err := g.News(t.Context(), collection(3, "<p>only</p>"))
	require.NoError(t, err)
	assert.Equal(t, "index.html", art.Path)
	assert.Equal(t, 3, art.Pages)

	out := readOutput(t, cfg, "index.html")
	assert.NotContains(t, out, " by ")
	assert.NotContains(t, out, "Continued")
}

package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

func TestArchive(t *testing.T) {
	g, cfg := newTestGenerator(t)

	art, err := g.Archive(t.Context(), collection(3, "<p>x</p>"))
	require.NoError(t, err)
	assert.Equal(t, KindArchive, art.Kind)
	assert.Equal(t, ArchiveFile, art.Path)
	assert.Equal(t, 3, art.Pages)

	out := readOutput(t, cfg, ArchiveFile)
	assert.True(t, strings.HasPrefix(out, "<html><head><title>Archive</title></head><body>\n<h1>Archive</h1>\n"))
	assert.True(t, strings.HasSuffix(out, "<footer>2025-06-07T08:09:10Z</footer></body></html>\n"))
	assert.Contains(t, out, "<td><a href=\"https://example.com/posts/p00.html\">post 0</a></td>\n")
	assert.Contains(t, out, "<td><date datetime=\"2025-06-07T08:09:10Z\">2025-06-07 08:09 UTC</date></td>\n")
	assert.Contains(t, out, "with a JavaScript-capable user agent.</p> \n")

	doc := parseHTML(t, out)
	tables := findAll(doc, hasClass("table", "sortable"))
	require.Len(t, tables, 1)
	rows := findAll(tables[0], isElement("tr"))
	require.Len(t, rows, 4)
	assert.Len(t, findAll(rows[0], isElement("th")), 4)
	assert.Equal(t, "Author", textOf(findAll(rows[0], isElement("th"))[3]))
	cells := findAll(rows[1], isElement("td"))
	require.Len(t, cells, 4)
	assert.Equal(t, "alice", textOf(cells[3]))
}

func TestArchive_HiddenUser(t *testing.T) {
	g, cfg := newTestGenerator(t)
	cfg.Privacy.HideUser = true

	_, err := g.Archive(t.Context(), collection(5, "<p>x</p>"))
	require.NoError(t, err)

	out := readOutput(t, cfg, ArchiveFile)
	assert.NotContains(t, out, "Author")
	assert.NotContains(t, out, "alice")

	doc := parseHTML(t, out)
	for _, row := range findAll(doc, isElement("tr")) {
		assert.LessOrEqual(t, len(findAll(row, isElement("td"))), 3)
		assert.LessOrEqual(t, len(findAll(row, isElement("th"))), 3)
	}
}

func TestArchive_EscapesTitles(t *testing.T) {
	g, cfg := newTestGenerator(t)
	c := page.NewCollection()
	c.Append(&page.Page{OutputPath: "/a.html", Title: "a <b> & c", User: "x"})

	_, err := g.Archive(t.Context(), c)
	require.NoError(t, err)
	assert.Contains(t, readOutput(t, cfg, ArchiveFile), ">a &lt;b&gt; &amp; c</a>")
}

func TestArchive_Empty(t *testing.T) {
	g, cfg := newTestGenerator(t)
	_, err := g.Archive(t.Context(), page.NewCollection())
	require.NoError(t, err)
	assert.Contains(t, readOutput(t, cfg, ArchiveFile), "<tbody>\n</tbody>")
}

package generate

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

const NewsTitle = "News"

var (
	headingOpen  = []byte("<h")
	headingClose = []byte("</h")
	paraOpen     = []byte("<p>")
	paraClose    = []byte("</p>")
)

// Preview cuts a page body down to its first paragraph. A leading heading
// (body starting with "<h") is dropped up to and including its closing tag,
// assumed to be five bytes long ("</h1>"). more reports whether another
// paragraph follows the first one.
func Preview(body []byte) (preview []byte, more bool) {
	b := body
	if bytes.HasPrefix(b, headingOpen) {
		if i := bytes.Index(b[len(headingOpen):], headingClose); i >= 0 {
			start := min(len(headingOpen)+i+5, len(b))
			b = b[start:]
		}
	}
	if i := bytes.Index(b, paraClose); i >= 0 {
		end := i + len(paraClose)
		more = bytes.Contains(b[end:], paraOpen)
		b = b[:end]
	}
	return b, more
}

// News writes the digest of the newest NewsLimit pages to news.html, or to
// index.html when the digest is the home page.
func (g *Generator) News(ctx context.Context, pages *page.Collection) (Artifact, error) {
	showUser := !g.cfg.Privacy.HideUser
	selected := pages.Head(NewsLimit)

	var b bytes.Buffer
	for _, p := range selected {
		preview, more := Preview(p.Body)

		b.WriteString("<article class=\"preview\">\n")
		fmt.Fprintf(&b, "<h2><a href=\"%s\">%s</a></h2>\n",
			html.EscapeString(g.link(p.OutputPath)), html.EscapeString(p.Title))
		fmt.Fprintf(&b, "<p class=\"byline\">Created <date datetime=\"%s\">%s</date>", p.Created.ISO, p.Created.Readable)
		if showUser {
			fmt.Fprintf(&b, " by %s", html.EscapeString(p.User))
		}
		b.WriteString("</p>\n")
		b.Write(preview)
		if more {
			b.WriteString("\n<p class=\"cont\"><em>Continued...</em></p>")
		}
		b.WriteString("\n</article>\n")
	}

	return g.writeWrapped(ctx, KindNews, g.cfg.News.Mode.OutputName(), NewsTitle, len(selected), b.Bytes())
}

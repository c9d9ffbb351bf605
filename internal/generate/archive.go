package generate

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

const (
	ArchiveFile  = "archive.html"
	ArchiveTitle = "Archive"
)

const sortableNotice = "<p>This table should be sortable (by selecting the headers)" +
	" with a JavaScript-capable user agent.</p> \n"

// Archive writes archive.html: a table with one row per page in collection
// order. The author column is left out entirely when users are hidden.
func (g *Generator) Archive(ctx context.Context, pages *page.Collection) (Artifact, error) {
	showUser := !g.cfg.Privacy.HideUser

	var b bytes.Buffer
	b.WriteString("<h1>Archive</h1>\n")
	b.WriteString("<table class=\"sortable archive\">\n")
	b.WriteString("<thead>\n<tr>\n")
	b.WriteString("<th>Title</th>\n<th>Date created</th>\n<th>Date modified</th>\n")
	if showUser {
		b.WriteString("<th>Author</th>\n")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	for _, p := range pages.Pages() {
		b.WriteString("<tr>\n")
		fmt.Fprintf(&b, "<td><a href=\"%s\">%s</a></td>\n",
			html.EscapeString(g.link(p.OutputPath)), html.EscapeString(p.Title))
		fmt.Fprintf(&b, "<td><date datetime=\"%s\">%s</date></td>\n", p.Created.ISO, p.Created.Readable)
		fmt.Fprintf(&b, "<td><date datetime=\"%s\">%s</date></td>\n", p.Modified.ISO, p.Modified.Readable)
		if showUser {
			fmt.Fprintf(&b, "<td>%s</td>\n", html.EscapeString(p.User))
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("</tbody>\n</table>\n")
	b.WriteString(sortableNotice)

	return g.writeWrapped(ctx, KindArchive, ArchiveFile, ArchiveTitle, pages.Len(), b.Bytes())
}

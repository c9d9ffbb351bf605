package generate

import (
	"context"
	"encoding/xml"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

const (
	FeedFile      = "atom.xml"
	atomNamespace = "http://www.w3.org/2005/Atom"
)

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Links   []atomLink  `xml:"link"`
	Author  *atomPerson `xml:"author,omitempty"`
	Updated string      `xml:"updated"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr,omitempty"`
	Href string `xml:"href,attr"`
}

type atomPerson struct {
	Name string `xml:"name"`
}

type atomEntry struct {
	Title     string      `xml:"title"`
	Link      atomLink    `xml:"link"`
	ID        string      `xml:"id"`
	Author    *atomPerson `xml:"author,omitempty"`
	Published string      `xml:"published"`
	Updated   string      `xml:"updated"`
	Content   atomContent `xml:"content"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

// Feed writes atom.xml with the newest FeedLimit pages. Each entry carries
// the full page body as escaped HTML content.
func (g *Generator) Feed(ctx context.Context, pages *page.Collection) (Artifact, error) {
	if strings.TrimSpace(g.cfg.Feed.Title) == "" {
		return Artifact{}, ferrors.ConfigError(config.ErrMissingFeedTitle).Build()
	}

	showUser := !g.cfg.Privacy.HideUser
	base := g.cfg.Site.BaseURL
	selected := pages.Head(FeedLimit)

	feed := atomFeed{
		Xmlns: atomNamespace,
		Title: g.cfg.Feed.Title,
		ID:    base,
		Links: []atomLink{
			{Href: base + "/"},
			{Rel: "self", Href: base + "/" + FeedFile},
		},
		Updated: page.NewTimestamp(g.now()).ISO,
		Entries: make([]atomEntry, 0, len(selected)),
	}
	if showUser {
		feed.Author = &atomPerson{Name: g.cfg.Site.Owner}
	}

	for _, p := range selected {
		entry := atomEntry{
			Title:     p.Title,
			Link:      atomLink{Href: g.link(p.OutputPath)},
			ID:        g.link(p.OutputPath),
			Published: p.Created.ISO,
			Updated:   p.Modified.ISO,
			Content:   atomContent{Type: "html", Body: string(p.Body)},
		}
		if showUser {
			entry.Author = &atomPerson{Name: p.User}
		}
		feed.Entries = append(feed.Entries, entry)
	}

	data, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return Artifact{}, ferrors.WrapError(err, ferrors.CategoryFormat, "encode feed").Fatal().Build()
	}
	return g.write(ctx, KindFeed, FeedFile, len(selected), []byte(xml.Header), data, []byte("\n"))
}

package templates

import (
	"strconv"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// Values are the substitutions available to a template.
type Values struct {
	BaseURL          string
	Year             string
	Created          string
	CreatedReadable  string
	Modified         string
	ModifiedReadable string
	Owner            string
	Title            string
}

// Placeholder names in substitution order.
const (
	PlaceholderBaseURL          = "${base_url}"
	PlaceholderYear             = "${year}"
	PlaceholderCreated          = "${created}"
	PlaceholderCreatedReadable  = "${created_readable}"
	PlaceholderModified         = "${modified}"
	PlaceholderModifiedReadable = "${modified_readable}"
	PlaceholderOwner            = "${owner}"
	PlaceholderTitle            = "${title}"
)

// Pairs returns placeholder/value pairs in substitution order.
func (v Values) Pairs() []string {
	return []string{
		PlaceholderBaseURL, v.BaseURL,
		PlaceholderYear, v.Year,
		PlaceholderCreated, v.Created,
		PlaceholderCreatedReadable, v.CreatedReadable,
		PlaceholderModified, v.Modified,
		PlaceholderModifiedReadable, v.ModifiedReadable,
		PlaceholderOwner, v.Owner,
		PlaceholderTitle, v.Title,
	}
}

// ValuesForPage builds the substitutions for a page generated from a source file.
func ValuesForPage(cfg *config.Config, p *page.Page, now time.Time) Values {
	return Values{
		BaseURL:          cfg.Site.BaseURL,
		Year:             strconv.Itoa(now.Year()),
		Created:          p.Created.ISO,
		CreatedReadable:  p.Created.Readable,
		Modified:         p.Modified.ISO,
		ModifiedReadable: p.Modified.Readable,
		Owner:            p.User,
		Title:            p.Title,
	}
}

// SyntheticValues builds the substitutions for an aggregate page: now is
// both created and modified, and the site owner stands in for the user.
func SyntheticValues(cfg *config.Config, title string, now time.Time) Values {
	ts := page.NewTimestamp(now)
	return Values{
		BaseURL:          cfg.Site.BaseURL,
		Year:             strconv.Itoa(now.Year()),
		Created:          ts.ISO,
		CreatedReadable:  ts.Readable,
		Modified:         ts.ISO,
		ModifiedReadable: ts.Readable,
		Owner:            cfg.Site.Owner,
		Title:            title,
	}
}

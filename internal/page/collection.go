package page

import "sort"

// Collection is the ordered list of pages produced by one build.
type Collection struct {
	pages []*Page
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) Append(p *Page) {
	c.pages = append(c.pages, p)
}

func (c *Collection) Len() int {
	return len(c.pages)
}

// Pages returns the pages in their current order.
func (c *Collection) Pages() []*Page {
	out := make([]*Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// SortByCreated orders pages newest first. Pages with equal creation times
// keep their traversal order.
func (c *Collection) SortByCreated() {
	sort.SliceStable(c.pages, func(i, j int) bool {
		return c.pages[i].Created.Time.After(c.pages[j].Created.Time)
	})
}

// Head returns at most n pages from the front.
func (c *Collection) Head(n int) []*Page {
	if n < 0 {
		n = 0
	}
	if n > len(c.pages) {
		n = len(c.pages)
	}
	out := make([]*Page, n)
	copy(out, c.pages[:n])
	return out
}

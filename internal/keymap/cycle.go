package keymap

// Cycle is the ordered page sequence tab cycling walks. The sequence is
// built per session from feature flags, so disabled pages never appear in
// the rotation.
type Cycle struct {
	pages []Page
}

// NewCycle builds a cycle over the given pages in order.
func NewCycle(pages ...Page) Cycle {
	return Cycle{pages: pages}
}

// PageSequence returns the canonical page order with flagged-off pages
// removed.
func PageSequence(popular, downloads bool) []Page {
	pages := []Page{PageBrowse}
	if popular {
		pages = append(pages, PagePopular)
	}
	if downloads {
		pages = append(pages, PageDownloads)
	}
	return append(pages, PageSettings)
}

func (c Cycle) Pages() []Page {
	return append([]Page(nil), c.pages...)
}

// Next returns the page after cur, wrapping modulo the filtered sequence.
// A cur outside the sequence lands on the first page.
func (c Cycle) Next(cur Page) Page {
	return c.step(cur, 1)
}

// Prev is the symmetric inverse of Next.
func (c Cycle) Prev(cur Page) Page {
	return c.step(cur, -1)
}

func (c Cycle) step(cur Page, delta int) Page {
	n := len(c.pages)
	if n == 0 {
		return cur
	}
	for i, p := range c.pages {
		if p == cur {
			return c.pages[((i+delta)%n+n)%n]
		}
	}
	return c.pages[0]
}

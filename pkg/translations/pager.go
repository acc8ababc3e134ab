package translations

import (
	"fmt"
	"strings"
)

// PageSize is how many episodes a page reveals.
const PageSize = 2

// Pager reveals the episode buckets of a catalog a page at a time.
type Pager struct {
	Catalog Catalog
	// Season is the selected season key; empty means every episode.
	Season string
	Loaded int
}

// NewPager returns a pager over c showing the first page of every episode.
func NewPager(c Catalog) *Pager {
	return &Pager{Catalog: c, Loaded: PageSize}
}

// Select scopes the pager to season and resets it to its first page.
// An empty season selects the whole catalog.
func (p *Pager) Select(season string) error {
	if season != "" && !p.Catalog.hasSeason(season) {
		return fmt.Errorf("%w: %q", ErrUnknownSeason, season)
	}
	p.Season = season
	p.Loaded = PageSize
	return nil
}

// LoadMore reveals the next page.
func (p *Pager) LoadMore() {
	p.Loaded += PageSize
}

// HasMore reports whether episodes of the selection are still hidden.
func (p *Pager) HasMore() bool {
	return p.Loaded < len(p.Catalog.Scope(p.Season))
}

// Visible returns the episode keys revealed so far.
func (p *Pager) Visible() []string {
	keys := p.Catalog.Scope(p.Season)
	if p.Loaded < len(keys) {
		return keys[:p.Loaded]
	}
	return keys
}

// Group is the items of one visible episode.
type Group struct {
	Key   string
	Label string
	Items []Item
}

// Render buckets items under the visible episodes, keeping only the items
// whose text or English contains search, ignoring case. Episodes left
// without items are omitted.
func (p *Pager) Render(items []Item, search string) []Group {
	search = strings.ToLower(strings.TrimSpace(search))
	byKey := map[string][]Item{}
	for _, it := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Trigedasleng), search) &&
			!strings.Contains(strings.ToLower(it.English), search) {
			continue
		}
		byKey[it.Episode] = append(byKey[it.Episode], it)
	}

	var groups []Group
	for _, key := range p.Visible() {
		if len(byKey[key]) == 0 {
			continue
		}
		groups = append(groups, Group{Key: key, Label: p.Catalog.Label(key), Items: byKey[key]})
	}
	return groups
}

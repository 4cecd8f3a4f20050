package browse

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"repackdex/internal/catalog"
	"repackdex/internal/logging"
)

// Gateway is the slice of the catalog the browse core calls. *catalog.DB
// satisfies it; tests substitute fakes.
type Gateway interface {
	AllGames(ctx context.Context, limit, offset int) ([]catalog.Game, error)
	SearchGames(ctx context.Context, query string, limit int) ([]catalog.Game, error)
	GamesByCategories(ctx context.Context, categoryIDs []int64, limit, offset int) ([]catalog.Game, error)
	GamesByDateRange(ctx context.Context, daysAgo, limit, offset int) ([]catalog.Game, error)
	GamesBySizeRange(ctx context.Context, minMB, maxMB int64, limit, offset int) ([]catalog.Game, error)
	GamesByCategoriesAndSize(ctx context.Context, categoryIDs []int64, minMB, maxMB int64, limit, offset int) ([]catalog.Game, error)
	GamesByCategoriesAndTime(ctx context.Context, categoryIDs []int64, daysAgo, limit, offset int) ([]catalog.Game, error)
	GamesBySizeAndTime(ctx context.Context, minMB, maxMB int64, daysAgo, limit, offset int) ([]catalog.Game, error)
	GamesByCategoriesSizeAndTime(ctx context.Context, categoryIDs []int64, minMB, maxMB int64, daysAgo, limit, offset int) ([]catalog.Game, error)
	CategoriesForCombinedFilter(ctx context.Context, selected []int64, minMB, maxMB int64, daysAgo int) ([]catalog.CategoryFacet, error)
	GameDetails(ctx context.Context, gameID int64) (*catalog.GameDetails, error)
}

// Controller owns the filter, result, and facet state. All fields are guarded
// by mu: bubbletea commands run concurrently, so unlike the single-threaded
// original there is an enforced boundary around shared state.
type Controller struct {
	gw       Gateway
	log      *logging.Logger
	pageSize int
	notify   func()

	mu       sync.Mutex
	filters  FilterState
	items    []catalog.Game
	selected int
	detail   *catalog.GameDetails
	facets   []catalog.CategoryFacet
	inflight int

	// applyGen stamps each apply cycle; a completion whose stamp is no
	// longer current discards its result instead of overwriting fresher
	// state. detailGen does the same for detail fetches.
	applyGen  uint64
	detailGen uint64
}

// New builds a controller. notify, if non-nil, is called after every state
// change so the UI can re-render; it must not call back into the controller.
func New(gw Gateway, log *logging.Logger, pageSize int, notify func()) *Controller {
	if pageSize <= 0 {
		pageSize = 100
	}
	if notify == nil {
		notify = func() {}
	}
	return &Controller{gw: gw, log: log, pageSize: pageSize, notify: notify}
}

// SetNotify swaps the change callback; used by the TUI after the bubbletea
// program exists.
func (c *Controller) SetNotify(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		fn = func() {}
	}
	c.notify = fn
}

// Snapshot is a read-only copy of the result state for rendering.
type Snapshot struct {
	Items         []catalog.Game
	SelectedIndex int
	Detail        *catalog.GameDetails
	Facets        []catalog.CategoryFacet
	Loading       bool
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]catalog.Game, len(c.items))
	copy(items, c.items)
	facets := make([]catalog.CategoryFacet, len(c.facets))
	copy(facets, c.facets)
	return Snapshot{
		Items:         items,
		SelectedIndex: c.selected,
		Detail:        c.detail,
		Facets:        facets,
		Loading:       c.inflight > 0,
	}
}

// Filters returns a snapshot of the current filter state.
func (c *Controller) Filters() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.clone()
}

// Filter mutators. Each delegates to the FilterState setter (which enforces
// the search-vs-structured exclusivity) under the lock; re-querying is the
// caller's job, normally through the debounce gate.

func (c *Controller) ToggleCategory(id int64) {
	c.mutate(func(f *FilterState) { f.ToggleCategory(id) })
}
func (c *Controller) SetTimeFilter(t TimeFilter) {
	c.mutate(func(f *FilterState) { f.SetTimeFilter(t) })
}
func (c *Controller) SetSizeBucket(label string) {
	c.mutate(func(f *FilterState) { f.SetSizeBucket(label) })
}
func (c *Controller) SetStatusTag(tag string) { c.mutate(func(f *FilterState) { f.SetStatusTag(tag) }) }
func (c *Controller) SetSearchQuery(q string) { c.mutate(func(f *FilterState) { f.SetSearchQuery(q) }) }
func (c *Controller) ClearFilters()           { c.mutate(func(f *FilterState) { f.ClearAll() }) }

func (c *Controller) mutate(fn func(*FilterState)) {
	c.mu.Lock()
	fn(&c.filters)
	c.mu.Unlock()
	c.notify()
}

// ApplyAllFilters resolves the current filter state into exactly one catalog
// query (plus a facet query outside search mode), runs the pair concurrently,
// and commits whichever halves succeeded. A failed half keeps its previous
// state. Stale completions (superseded by a newer apply) are discarded whole.
func (c *Controller) ApplyAllFilters(ctx context.Context) {
	c.mu.Lock()
	c.applyGen++
	gen := c.applyGen
	snap := c.filters.clone()
	c.inflight++
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
		c.notify()
	}()

	plan := Resolve(&snap, c.pageSize, 0)
	facetPlan, wantFacets := ResolveFacets(&snap)

	var (
		games     []catalog.Game
		dataErr   error
		facets    []catalog.CategoryFacet
		facetsErr error
	)
	// Both goroutines capture their own error and return nil: a data
	// failure must not cancel the facet refresh or vice versa.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		games, dataErr = c.execute(gctx, plan)
		return nil
	})
	if wantFacets {
		g.Go(func() error {
			facets, facetsErr = c.gw.CategoriesForCombinedFilter(gctx,
				facetPlan.Categories, facetPlan.MinMB, facetPlan.MaxMB, facetPlan.DaysAgo)
			return nil
		})
	}
	_ = g.Wait()

	var fetchID int64
	var fetchGen uint64
	fetch := false

	c.mu.Lock()
	if gen != c.applyGen {
		c.mu.Unlock()
		c.log.Debugf("discarding stale apply (gen %d < %d)", gen, c.applyGen)
		return
	}
	if dataErr != nil {
		c.log.Errorf("apply filters: %s query failed: %v", plan.Op, dataErr)
	} else {
		c.items = narrowByStatus(games, snap.StatusTag())
		c.selected = 0
		c.detail = nil
		if len(c.items) > 0 {
			c.detailGen++
			fetchGen = c.detailGen
			fetchID = c.items[0].ID
			fetch = true
		}
	}
	if wantFacets {
		if facetsErr != nil {
			c.log.Errorf("apply filters: facet query failed: %v", facetsErr)
		} else {
			c.facets = facets
		}
	} else {
		// Search mode: category facets are suppressed.
		c.facets = nil
	}
	c.mu.Unlock()
	c.notify()

	if fetch {
		c.fetchDetail(ctx, fetchGen, fetchID)
	}
}

// execute maps a resolved plan onto the matching gateway call.
func (c *Controller) execute(ctx context.Context, p QueryPlan) ([]catalog.Game, error) {
	switch p.Op {
	case OpSearch:
		return c.gw.SearchGames(ctx, p.Query, p.Limit)
	case OpCategories:
		return c.gw.GamesByCategories(ctx, p.Categories, p.Limit, p.Offset)
	case OpSize:
		return c.gw.GamesBySizeRange(ctx, p.MinMB, p.MaxMB, p.Limit, p.Offset)
	case OpTime:
		return c.gw.GamesByDateRange(ctx, p.DaysAgo, p.Limit, p.Offset)
	case OpCategoriesSize:
		return c.gw.GamesByCategoriesAndSize(ctx, p.Categories, p.MinMB, p.MaxMB, p.Limit, p.Offset)
	case OpCategoriesTime:
		return c.gw.GamesByCategoriesAndTime(ctx, p.Categories, p.DaysAgo, p.Limit, p.Offset)
	case OpSizeTime:
		return c.gw.GamesBySizeAndTime(ctx, p.MinMB, p.MaxMB, p.DaysAgo, p.Limit, p.Offset)
	case OpCategoriesSizeTime:
		return c.gw.GamesByCategoriesSizeAndTime(ctx, p.Categories, p.MinMB, p.MaxMB, p.DaysAgo, p.Limit, p.Offset)
	default:
		return c.gw.AllGames(ctx, p.Limit, p.Offset)
	}
}

// narrowByStatus applies the display status tag client-side. The tag never
// changes which backend operation runs; unknown tags are inactive.
func narrowByStatus(games []catalog.Game, tag string) []catalog.Game {
	if tag != "new" {
		return games
	}
	out := games[:0:0]
	for _, g := range games {
		if g.IsNew {
			out = append(out, g)
		}
	}
	return out
}

// SelectItem validates the index, moves the selection, and fetches the full
// detail for the item. Out-of-range indexes are a no-op. On fetch failure the
// previous detail stays visible; stale detail beats a blank flash.
func (c *Controller) SelectItem(ctx context.Context, index int) {
	c.mu.Lock()
	if index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return
	}
	c.selected = index
	c.detailGen++
	gen := c.detailGen
	id := c.items[index].ID
	c.mu.Unlock()
	c.notify()

	c.fetchDetail(ctx, gen, id)
}

func (c *Controller) fetchDetail(ctx context.Context, gen uint64, id int64) {
	d, err := c.gw.GameDetails(ctx, id)
	if err != nil {
		c.log.Errorf("detail fetch for game %d: %v", id, err)
		return
	}
	c.mu.Lock()
	if gen != c.detailGen {
		c.mu.Unlock()
		return
	}
	c.detail = d
	c.mu.Unlock()
	c.notify()
}

// MoveSelection moves the selection by delta, clamped to the list bounds with
// no wraparound. No-op on an empty list or at the boundary.
func (c *Controller) MoveSelection(ctx context.Context, delta int) {
	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return
	}
	next := c.selected + delta
	if next < 0 {
		next = 0
	}
	if next > len(c.items)-1 {
		next = len(c.items) - 1
	}
	if next == c.selected {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.SelectItem(ctx, next)
}

// SelectedGame returns the currently selected item, if any.
func (c *Controller) SelectedGame() (catalog.Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 || c.selected >= len(c.items) {
		return catalog.Game{}, false
	}
	return c.items[c.selected], true
}

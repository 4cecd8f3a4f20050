// Package browse holds the filter-and-selection engine: filter state, the
// query resolver that maps it onto exactly one catalog operation, the debounce
// gate, and the controller that orchestrates queries and selection.
package browse

// TimeFilter is the closed set of release-recency buckets.
type TimeFilter int

const (
	TimeNone TimeFilter = iota
	TimeToday
	TimeThisWeek
	TimeThisMonth
)

// DaysAgo maps a time bucket to the backend days-ago parameter. 0 means the
// dimension is inactive.
func (t TimeFilter) DaysAgo() int {
	switch t {
	case TimeToday:
		return 1
	case TimeThisWeek:
		return 7
	case TimeThisMonth:
		return 30
	default:
		return 0
	}
}

func (t TimeFilter) String() string {
	switch t {
	case TimeToday:
		return "Today"
	case TimeThisWeek:
		return "This Week"
	case TimeThisMonth:
		return "This Month"
	default:
		return ""
	}
}

// ParseTimeFilter maps the UI vocabulary back to a bucket. Unknown strings
// degrade to TimeNone rather than erroring.
func ParseTimeFilter(s string) TimeFilter {
	switch s {
	case "Today":
		return TimeToday
	case "This Week":
		return TimeThisWeek
	case "This Month":
		return TimeThisMonth
	default:
		return TimeNone
	}
}

// SizeRange is a bucket's bounds in MB. A zero bound is open.
type SizeRange struct {
	MinMB int64
	MaxMB int64
}

// SizeBuckets is the fixed bucket vocabulary, in display order. The labels
// are part of the persisted-settings compatibility surface and must not drift.
var SizeBuckets = []string{
	"< 1 GB",
	"1-10 GB",
	"10-25 GB",
	"25-40 GB",
	"40-60 GB",
	"> 60 GB",
}

var sizeBucketRanges = map[string]SizeRange{
	"< 1 GB":   {MinMB: 0, MaxMB: 1024},
	"1-10 GB":  {MinMB: 1024, MaxMB: 10240},
	"10-25 GB": {MinMB: 10240, MaxMB: 25600},
	"25-40 GB": {MinMB: 25600, MaxMB: 40960},
	"40-60 GB": {MinMB: 40960, MaxMB: 61440},
	"> 60 GB":  {MinMB: 61440, MaxMB: 0},
}

// SizeBucketRange resolves a bucket label. Unrecognized labels report
// ok=false and an unbounded range, which the resolver treats as inactive.
func SizeBucketRange(label string) (SizeRange, bool) {
	r, ok := sizeBucketRanges[label]
	return r, ok
}

// FilterState holds the active filter selections and the free-text query.
// Search and structured filtering are mutually exclusive: activating either
// side clears the other.
type FilterState struct {
	categories  []int64
	timeFilter  TimeFilter
	sizeBucket  string
	statusTag   string
	searchQuery string
}

// Categories returns the selected category ids in selection order.
func (f FilterState) Categories() []int64 {
	out := make([]int64, len(f.categories))
	copy(out, f.categories)
	return out
}

func (f FilterState) TimeFilter() TimeFilter { return f.timeFilter }
func (f FilterState) SizeBucket() string     { return f.sizeBucket }
func (f FilterState) StatusTag() string      { return f.statusTag }
func (f FilterState) SearchQuery() string    { return f.searchQuery }

// HasCategory reports whether the category is currently selected.
func (f FilterState) HasCategory(id int64) bool {
	for _, c := range f.categories {
		if c == id {
			return true
		}
	}
	return false
}

// ToggleCategory adds or removes a category, preserving selection order for
// the remaining chips. Clears any active search.
func (f *FilterState) ToggleCategory(id int64) {
	f.searchQuery = ""
	for i, c := range f.categories {
		if c == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return
		}
	}
	f.categories = append(f.categories, id)
}

func (f *FilterState) SetTimeFilter(t TimeFilter) {
	f.searchQuery = ""
	f.timeFilter = t
}

// SetSizeBucket sets the size bucket by label. Unknown labels clear the
// dimension instead of failing.
func (f *FilterState) SetSizeBucket(label string) {
	f.searchQuery = ""
	if _, ok := sizeBucketRanges[label]; !ok {
		f.sizeBucket = ""
		return
	}
	f.sizeBucket = label
}

// SetStatusTag sets the display-only status chip. It does not participate in
// query plan selection.
func (f *FilterState) SetStatusTag(tag string) {
	f.searchQuery = ""
	f.statusTag = tag
}

// SetSearchQuery enters search mode. A non-empty query clears every
// structured filter atomically before any query is issued.
func (f *FilterState) SetSearchQuery(q string) {
	f.searchQuery = q
	if q != "" {
		f.categories = nil
		f.timeFilter = TimeNone
		f.sizeBucket = ""
	}
}

// ClearAll resets the state to the baseline (no filters, no search).
func (f *FilterState) ClearAll() {
	*f = FilterState{}
}

// HasStructured reports whether any of the three structured dimensions that
// drive query selection is active.
func (f FilterState) HasStructured() bool {
	return len(f.categories) > 0 || f.timeFilter != TimeNone || f.sizeBucket != ""
}

// Searching reports whether search mode drives the result set.
func (f FilterState) Searching() bool { return f.searchQuery != "" }

// clone snapshots the state so query execution never reads a mutating struct.
func (f *FilterState) clone() FilterState {
	c := *f
	c.categories = f.Categories()
	return c
}

package browse

// QueryOp names exactly one catalog operation.
type QueryOp int

const (
	OpAll QueryOp = iota
	OpSearch
	OpCategories
	OpSize
	OpTime
	OpCategoriesSize
	OpCategoriesTime
	OpSizeTime
	OpCategoriesSizeTime
)

func (op QueryOp) String() string {
	switch op {
	case OpSearch:
		return "search"
	case OpCategories:
		return "categories"
	case OpSize:
		return "size"
	case OpTime:
		return "time"
	case OpCategoriesSize:
		return "categories+size"
	case OpCategoriesTime:
		return "categories+time"
	case OpSizeTime:
		return "size+time"
	case OpCategoriesSizeTime:
		return "categories+size+time"
	default:
		return "all"
	}
}

// Dimension presence bits for the mask lookup.
const (
	dimCategories = 1 << iota
	dimSize
	dimTime
)

// opByMask maps the active-dimension subset to the one operation that names
// exactly those dimensions.
var opByMask = [8]QueryOp{
	0:                                 OpAll,
	dimCategories:                     OpCategories,
	dimSize:                           OpSize,
	dimTime:                           OpTime,
	dimCategories | dimSize:           OpCategoriesSize,
	dimCategories | dimTime:           OpCategoriesTime,
	dimSize | dimTime:                 OpSizeTime,
	dimCategories | dimSize | dimTime: OpCategoriesSizeTime,
}

// QueryPlan is a fully resolved catalog call: one operation plus every
// parameter it needs.
type QueryPlan struct {
	Op         QueryOp
	Query      string // search text, OpSearch only
	Categories []int64
	MinMB      int64
	MaxMB      int64
	DaysAgo    int
	Limit      int
	Offset     int
}

// FacetPlan is the companion facet-count call. Search mode has no facet plan.
type FacetPlan struct {
	Categories []int64
	MinMB      int64
	MaxMB      int64
	DaysAgo    int
}

func dimensionMask(f *FilterState) (mask int, r SizeRange, days int) {
	if len(f.categories) > 0 {
		mask |= dimCategories
	}
	if sr, ok := SizeBucketRange(f.sizeBucket); ok && f.sizeBucket != "" {
		mask |= dimSize
		r = sr
	}
	if d := f.timeFilter.DaysAgo(); d > 0 {
		mask |= dimTime
		days = d
	}
	return mask, r, days
}

// Resolve maps the filter state to the one catalog operation matching exactly
// its active dimensions. Pure; malformed filter values degrade to inactive.
func Resolve(f *FilterState, limit, offset int) QueryPlan {
	if f.Searching() {
		return QueryPlan{Op: OpSearch, Query: f.searchQuery, Limit: limit}
	}
	mask, r, days := dimensionMask(f)
	return QueryPlan{
		Op:         opByMask[mask],
		Categories: f.Categories(),
		MinMB:      r.MinMB,
		MaxMB:      r.MaxMB,
		DaysAgo:    days,
		Limit:      limit,
		Offset:     offset,
	}
}

// ResolveFacets picks the facet-count query for the same dimension subset.
// ok=false in search mode: categories are suppressed while searching.
func ResolveFacets(f *FilterState) (FacetPlan, bool) {
	if f.Searching() {
		return FacetPlan{}, false
	}
	_, r, days := dimensionMask(f)
	return FacetPlan{
		Categories: f.Categories(),
		MinMB:      r.MinMB,
		MaxMB:      r.MaxMB,
		DaysAgo:    days,
	}, true
}

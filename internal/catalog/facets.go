package catalog

import (
	"context"
	"strings"
)

// buildFacetQuery counts games per category for the games matching the given
// filter. The category dimension of the filter restricts which games are
// counted, not which categories appear, so picking one category still shows
// live counts for all the others.
func buildFacetQuery(f gameFilter) (string, []any) {
	var b strings.Builder
	var args []any
	b.WriteString(`SELECT c.id, c.name, COUNT(DISTINCT r.id) AS game_count
		FROM categories c
		JOIN game_categories gc ON gc.category_id = c.id
		JOIN repacks r ON r.id = gc.repack_id
		WHERE EXISTS (SELECT 1 FROM magnet_links WHERE magnet_links.repack_id = r.id)`)
	if len(f.categories) > 0 {
		b.WriteString(` AND r.id IN (
			SELECT gc2.repack_id FROM game_categories gc2
			WHERE gc2.category_id IN (` + placeholders(len(f.categories)) + `)
			GROUP BY gc2.repack_id
			HAVING COUNT(DISTINCT gc2.category_id) = ?)`)
		for _, id := range f.categories {
			args = append(args, id)
		}
		args = append(args, int64(len(f.categories)))
	}
	if f.minMB > 0 {
		b.WriteString(` AND r.size >= ?`)
		args = append(args, f.minMB)
	}
	if f.maxMB > 0 {
		b.WriteString(` AND r.size <= ?`)
		args = append(args, f.maxMB)
	}
	if f.daysAgo > 0 {
		b.WriteString(` AND r.date >= date('now', '-' || ? || ' days')`)
		args = append(args, f.daysAgo)
	}
	b.WriteString(`
		GROUP BY c.id, c.name
		HAVING game_count > 0
		ORDER BY game_count DESC, c.name ASC`)
	return b.String(), args
}

func (db *DB) queryFacets(ctx context.Context, query string, args ...any) ([]CategoryFacet, error) {
	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CategoryFacet
	for rows.Next() {
		var f CategoryFacet
		if err := rows.Scan(&f.ID, &f.Name, &f.GameCount); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CategoriesWithCounts is the baseline facet list: every category with its
// total game count.
func (db *DB) CategoriesWithCounts(ctx context.Context) ([]CategoryFacet, error) {
	q, args := buildFacetQuery(gameFilter{})
	return db.queryFacets(ctx, q, args...)
}

// CategoriesForFilteredGames counts categories within the games that carry all
// of the selected categories.
func (db *DB) CategoriesForFilteredGames(ctx context.Context, selected []int64) ([]CategoryFacet, error) {
	if len(selected) == 0 {
		return db.CategoriesWithCounts(ctx)
	}
	q, args := buildFacetQuery(gameFilter{categories: selected})
	return db.queryFacets(ctx, q, args...)
}

func (db *DB) CategoriesForTimeFilteredGames(ctx context.Context, daysAgo int) ([]CategoryFacet, error) {
	q, args := buildFacetQuery(gameFilter{daysAgo: daysAgo})
	return db.queryFacets(ctx, q, args...)
}

func (db *DB) CategoriesForSizeFilteredGames(ctx context.Context, minMB, maxMB int64) ([]CategoryFacet, error) {
	q, args := buildFacetQuery(gameFilter{minMB: minMB, maxMB: maxMB})
	return db.queryFacets(ctx, q, args...)
}

func (db *DB) CategoriesForSizeAndTimeFilteredGames(ctx context.Context, minMB, maxMB int64, daysAgo int) ([]CategoryFacet, error) {
	q, args := buildFacetQuery(gameFilter{minMB: minMB, maxMB: maxMB, daysAgo: daysAgo})
	return db.queryFacets(ctx, q, args...)
}

// CategoriesForCombinedFilter is the general entry the orchestrator uses; it
// covers all eight category/size/time facet combinations with one builder.
func (db *DB) CategoriesForCombinedFilter(ctx context.Context, selected []int64, minMB, maxMB int64, daysAgo int) ([]CategoryFacet, error) {
	q, args := buildFacetQuery(gameFilter{categories: selected, minMB: minMB, maxMB: maxMB, daysAgo: daysAgo})
	return db.queryFacets(ctx, q, args...)
}

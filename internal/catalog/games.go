package catalog

import (
	"context"
	"database/sql"
	"strings"
)

// gameFields is the column list every game query selects, aliased to r.
// created_at rides along so the scanner can derive the NEW badge.
const gameFields = `r.id, r.title,
	COALESCE(r.clean_name, ''),
	COALESCE(r.genres_tags, ''),
	COALESCE(r.company, ''),
	COALESCE(r.languages, ''),
	COALESCE(r.original_size, ''),
	COALESCE(r.repack_size, ''),
	COALESCE(r.size, 0),
	r.url,
	COALESCE(r.date, ''),
	COALESCE(r.image_url, ''),
	COALESCE(r.created_at, '')`

// gameFilter is the internal union of the three structured dimensions. Zero
// values mean "dimension inactive"; the public methods below fix which
// dimensions they populate, so each maps to exactly one WHERE shape.
type gameFilter struct {
	categories []int64
	minMB      int64
	maxMB      int64
	daysAgo    int
}

func buildGameQuery(f gameFilter, limit, offset int) (string, []any) {
	var b strings.Builder
	var args []any
	b.WriteString(`SELECT ` + gameFields + ` FROM repacks r
		WHERE EXISTS (SELECT 1 FROM magnet_links WHERE magnet_links.repack_id = r.id)`)
	if len(f.categories) > 0 {
		// A game matches only when it carries every selected category.
		b.WriteString(` AND r.id IN (
			SELECT gc.repack_id FROM game_categories gc
			WHERE gc.category_id IN (` + placeholders(len(f.categories)) + `)
			GROUP BY gc.repack_id
			HAVING COUNT(DISTINCT gc.category_id) = ?)`)
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
	b.WriteString(` ORDER BY r.date DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)
	return b.String(), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func (db *DB) queryGames(ctx context.Context, query string, args ...any) ([]Game, error) {
	rows, err := db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return db.scanGames(rows)
}

func (db *DB) scanGames(rows *sql.Rows) ([]Game, error) {
	var out []Game
	for rows.Next() {
		var g Game
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Title, &g.CleanName, &g.GenresTags, &g.Company,
			&g.Languages, &g.OriginalSize, &g.RepackSize, &g.SizeMB, &g.URL,
			&g.Date, &g.ImageURL, &createdAt); err != nil {
			return nil, err
		}
		g.IsNew = createdAt > db.lastSeen
		out = append(out, g)
	}
	return out, rows.Err()
}

// AllGames returns the newest games first, unfiltered.
func (db *DB) AllGames(ctx context.Context, limit, offset int) ([]Game, error) {
	q, args := buildGameQuery(gameFilter{}, limit, offset)
	return db.queryGames(ctx, q, args...)
}

// SearchGames matches the query against title and clean name. Title prefix
// hits sort first, then clean-name hits, then anything containing the query.
func (db *DB) SearchGames(ctx context.Context, query string, limit int) ([]Game, error) {
	contains := "%" + query + "%"
	prefix := query + "%"
	q := `SELECT ` + gameFields + ` FROM repacks r
		WHERE (r.title LIKE ?1 OR r.clean_name LIKE ?1)
		AND EXISTS (SELECT 1 FROM magnet_links WHERE magnet_links.repack_id = r.id)
		ORDER BY
			CASE WHEN r.title LIKE ?2 THEN 0
			     WHEN r.clean_name LIKE ?2 THEN 1
			     ELSE 2 END,
			r.date DESC
		LIMIT ?3`
	return db.queryGames(ctx, q, contains, prefix, limit)
}

// GamesByCategory is the single-category convenience form.
func (db *DB) GamesByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]Game, error) {
	return db.GamesByCategories(ctx, []int64{categoryID}, limit, offset)
}

// GamesByCategories returns games carrying all of the given categories.
func (db *DB) GamesByCategories(ctx context.Context, categoryIDs []int64, limit, offset int) ([]Game, error) {
	if len(categoryIDs) == 0 {
		return db.AllGames(ctx, limit, offset)
	}
	q, args := buildGameQuery(gameFilter{categories: categoryIDs}, limit, offset)
	return db.queryGames(ctx, q, args...)
}

// GamesByDateRange returns games released within the last daysAgo days.
func (db *DB) GamesByDateRange(ctx context.Context, daysAgo, limit, offset int) ([]Game, error) {
	q, args := buildGameQuery(gameFilter{daysAgo: daysAgo}, limit, offset)
	return db.queryGames(ctx, q, args...)
}

// GamesBySizeRange returns games within [minMB, maxMB]. A zero bound is open.
func (db *DB) GamesBySizeRange(ctx context.Context, minMB, maxMB int64, limit, offset int) ([]Game, error) {
	q, args := buildGameQuery(gameFilter{minMB: minMB, maxMB: maxMB}, limit, offset)
	return db.queryGames(ctx, q, args...)
}

func (db *DB) GamesByCategoriesAndSize(ctx context.Context, categoryIDs []int64, minMB, maxMB int64, limit, offset int) ([]Game, error) {
	if len(categoryIDs) == 0 {
		return db.GamesBySizeRange(ctx, minMB, maxMB, limit, offset)
	}
	q, args := buildGameQuery(gameFilter{categories: categoryIDs, minMB: minMB, maxMB: maxMB}, limit, offset)
	return db.queryGames(ctx, q, args...)
}

func (db *DB) GamesByCategoriesAndTime(ctx context.Context, categoryIDs []int64, daysAgo, limit, offset int) ([]Game, error) {
	if len(categoryIDs) == 0 {
		return db.GamesByDateRange(ctx, daysAgo, limit, offset)
	}
	q, args := buildGameQuery(gameFilter{categories: categoryIDs, daysAgo: daysAgo}, limit, offset)
	return db.queryGames(ctx, q, args...)
}

func (db *DB) GamesBySizeAndTime(ctx context.Context, minMB, maxMB int64, daysAgo, limit, offset int) ([]Game, error) {
	q, args := buildGameQuery(gameFilter{minMB: minMB, maxMB: maxMB, daysAgo: daysAgo}, limit, offset)
	return db.queryGames(ctx, q, args...)
}

func (db *DB) GamesByCategoriesSizeAndTime(ctx context.Context, categoryIDs []int64, minMB, maxMB int64, daysAgo, limit, offset int) ([]Game, error) {
	if len(categoryIDs) == 0 {
		return db.GamesBySizeAndTime(ctx, minMB, maxMB, daysAgo, limit, offset)
	}
	q, args := buildGameQuery(gameFilter{categories: categoryIDs, minMB: minMB, maxMB: maxMB, daysAgo: daysAgo}, limit, offset)
	return db.queryGames(ctx, q, args...)
}

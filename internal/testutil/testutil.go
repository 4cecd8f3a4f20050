// Package testutil builds throwaway catalog databases for tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"repackdex/internal/catalog"
)

// SeedGame describes one game to insert, with optional categories and a
// magnet link (games without magnets are invisible to browse queries, so the
// seeder adds one unless told not to).
type SeedGame struct {
	Title      string
	SizeMB     int64
	Date       string // "2006-01-02"; empty means today
	Categories []string
	NoMagnet   bool
}

// SetupCatalog opens a fresh catalog database under t.TempDir.
func SetupCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	db, err := catalog.OpenPath(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close catalog: %v", err)
		}
	})
	return db
}

// SeedGames inserts games in order and returns their ids, creating categories
// on first use.
func SeedGames(t *testing.T, db *catalog.DB, games []SeedGame) []int64 {
	t.Helper()
	ctx := context.Background()
	catIDs := map[string]int64{}
	var ids []int64
	for _, g := range games {
		date := g.Date
		if date == "" {
			var err error
			date, err = queryScalarString(ctx, db, `SELECT date('now')`)
			if err != nil {
				t.Fatalf("seed date: %v", err)
			}
		}
		res, err := db.SQL.ExecContext(ctx,
			`INSERT INTO repacks(title, clean_name, size, url, date) VALUES(?,?,?,?,?)`,
			g.Title, g.Title, g.SizeMB, "https://example.test/"+g.Title, date)
		if err != nil {
			t.Fatalf("seed game %q: %v", g.Title, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			t.Fatalf("seed game id: %v", err)
		}
		ids = append(ids, id)

		if !g.NoMagnet {
			if _, err := db.SQL.ExecContext(ctx,
				`INSERT INTO magnet_links(repack_id, source, magnet) VALUES(?,?,?)`,
				id, "seed", "magnet:?xt=urn:btih:"+g.Title); err != nil {
				t.Fatalf("seed magnet for %q: %v", g.Title, err)
			}
		}
		for _, name := range g.Categories {
			cid, ok := catIDs[name]
			if !ok {
				res, err := db.SQL.ExecContext(ctx,
					`INSERT INTO categories(name) VALUES(?) ON CONFLICT(name) DO UPDATE SET name=excluded.name`, name)
				if err != nil {
					t.Fatalf("seed category %q: %v", name, err)
				}
				cid, err = res.LastInsertId()
				if err != nil {
					t.Fatalf("seed category id: %v", err)
				}
				catIDs[name] = cid
			}
			if _, err := db.SQL.ExecContext(ctx,
				`INSERT INTO game_categories(repack_id, category_id) VALUES(?,?)`, id, cid); err != nil {
				t.Fatalf("seed game_category: %v", err)
			}
		}
	}
	return ids
}

// CategoryID looks up a category created by SeedGames.
func CategoryID(t *testing.T, db *catalog.DB, name string) int64 {
	t.Helper()
	var id int64
	err := db.SQL.QueryRow(`SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if err != nil {
		t.Fatalf("category %q: %v", name, err)
	}
	return id
}

// SeedDownload inserts one download row for a seeded game.
func SeedDownload(t *testing.T, db *catalog.DB, repackID int64, title, status string, progress float64) {
	t.Helper()
	if _, err := db.SQL.Exec(
		`INSERT INTO downloads(repack_id, game_title, magnet_link, info_hash, status, save_path, progress)
		 VALUES(?,?,?,?,?,?,?)`,
		repackID, title, "magnet:?xt=urn:btih:"+title, title+"-hash", status, "/downloads/"+title, progress); err != nil {
		t.Fatalf("seed download: %v", err)
	}
}

func queryScalarString(ctx context.Context, db *catalog.DB, q string) (string, error) {
	var s string
	err := db.SQL.QueryRowContext(ctx, q).Scan(&s)
	return s, err
}

// DaysAgo returns a date string n days before today, for seeding time-bucket
// fixtures without depending on the wall clock in assertions.
func DaysAgo(t *testing.T, db *catalog.DB, n int) string {
	t.Helper()
	var s string
	err := db.SQL.QueryRow(`SELECT date('now', ?)`, fmt.Sprintf("-%d days", n)).Scan(&s)
	if err != nil {
		t.Fatalf("days ago: %v", err)
	}
	return s
}

package catalog_test

import (
	"context"
	"testing"

	"repackdex/internal/catalog"
	"repackdex/internal/testutil"
)

func seedStandard(t *testing.T, db *catalog.DB) {
	t.Helper()
	old := testutil.DaysAgo(t, db, 90)
	recent := testutil.DaysAgo(t, db, 2)
	testutil.SeedGames(t, db, []testutil.SeedGame{
		{Title: "Alpha Quest", SizeMB: 500, Date: recent, Categories: []string{"RPG", "Indie"}},
		{Title: "Beta Strike", SizeMB: 5000, Date: recent, Categories: []string{"Action"}},
		{Title: "Gamma Siege", SizeMB: 30000, Date: old, Categories: []string{"Strategy", "RPG"}},
		{Title: "Delta Run", SizeMB: 70000, Date: old, Categories: []string{"Action", "RPG"}},
		{Title: "Ghost Entry", SizeMB: 100, Date: recent, NoMagnet: true},
	})
}

func TestAllGamesExcludesMagnetless(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)

	games, err := db.AllGames(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("AllGames: %v", err)
	}
	if len(games) != 4 {
		t.Fatalf("expected 4 games, got %d", len(games))
	}
	for _, g := range games {
		if g.Title == "Ghost Entry" {
			t.Error("game without magnet links leaked into results")
		}
	}
}

func TestSearchGamesOrdering(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)

	games, err := db.SearchGames(context.Background(), "a", 100)
	if err != nil {
		t.Fatalf("SearchGames: %v", err)
	}
	if len(games) == 0 {
		t.Fatal("expected matches for 'a'")
	}
	games, err = db.SearchGames(context.Background(), "Beta", 100)
	if err != nil {
		t.Fatalf("SearchGames: %v", err)
	}
	if len(games) != 1 || games[0].Title != "Beta Strike" {
		t.Fatalf("expected only Beta Strike, got %+v", games)
	}
}

func TestGamesByCategoriesRequiresAll(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)
	ctx := context.Background()

	rpg := testutil.CategoryID(t, db, "RPG")
	action := testutil.CategoryID(t, db, "Action")

	single, err := db.GamesByCategories(ctx, []int64{rpg}, 100, 0)
	if err != nil {
		t.Fatalf("GamesByCategories: %v", err)
	}
	if len(single) != 3 {
		t.Errorf("RPG alone should match 3 games, got %d", len(single))
	}

	both, err := db.GamesByCategories(ctx, []int64{rpg, action}, 100, 0)
	if err != nil {
		t.Fatalf("GamesByCategories: %v", err)
	}
	if len(both) != 1 || both[0].Title != "Delta Run" {
		t.Errorf("RPG+Action should match only Delta Run, got %+v", both)
	}
}

func TestGamesBySizeRangeBounds(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)
	ctx := context.Background()

	tests := []struct {
		name      string
		min, max  int64
		wantCount int
	}{
		{"under 1 GB", 0, 1024, 1},
		{"1-10 GB", 1024, 10240, 1},
		{"over 60 GB", 61440, 0, 1},
		{"unbounded", 0, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games, err := db.GamesBySizeRange(ctx, tt.min, tt.max, 100, 0)
			if err != nil {
				t.Fatalf("GamesBySizeRange: %v", err)
			}
			if len(games) != tt.wantCount {
				t.Errorf("expected %d games, got %d", tt.wantCount, len(games))
			}
		})
	}
}

func TestGamesByDateRange(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)

	games, err := db.GamesByDateRange(context.Background(), 7, 100, 0)
	if err != nil {
		t.Fatalf("GamesByDateRange: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games within 7 days, got %d", len(games))
	}
}

func TestCombinedQueries(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)
	ctx := context.Background()
	rpg := testutil.CategoryID(t, db, "RPG")

	games, err := db.GamesByCategoriesAndTime(ctx, []int64{rpg}, 7, 100, 0)
	if err != nil {
		t.Fatalf("GamesByCategoriesAndTime: %v", err)
	}
	if len(games) != 1 || games[0].Title != "Alpha Quest" {
		t.Errorf("recent RPG should be Alpha Quest, got %+v", games)
	}

	games, err = db.GamesByCategoriesAndSize(ctx, []int64{rpg}, 10240, 61440, 100, 0)
	if err != nil {
		t.Fatalf("GamesByCategoriesAndSize: %v", err)
	}
	if len(games) != 1 || games[0].Title != "Gamma Siege" {
		t.Errorf("mid-size RPG should be Gamma Siege, got %+v", games)
	}

	games, err = db.GamesBySizeAndTime(ctx, 1024, 10240, 7, 100, 0)
	if err != nil {
		t.Fatalf("GamesBySizeAndTime: %v", err)
	}
	if len(games) != 1 || games[0].Title != "Beta Strike" {
		t.Errorf("recent 1-10GB should be Beta Strike, got %+v", games)
	}

	games, err = db.GamesByCategoriesSizeAndTime(ctx, []int64{rpg}, 0, 1024, 7, 100, 0)
	if err != nil {
		t.Fatalf("GamesByCategoriesSizeAndTime: %v", err)
	}
	if len(games) != 1 || games[0].Title != "Alpha Quest" {
		t.Errorf("recent small RPG should be Alpha Quest, got %+v", games)
	}
}

func TestFacetCountsExcludeCategoryDimension(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)
	ctx := context.Background()
	rpg := testutil.CategoryID(t, db, "RPG")

	facets, err := db.CategoriesForFilteredGames(ctx, []int64{rpg})
	if err != nil {
		t.Fatalf("CategoriesForFilteredGames: %v", err)
	}
	counts := map[string]int64{}
	for _, f := range facets {
		counts[f.Name] = f.GameCount
	}
	// Within the 3 RPG games: Indie appears once, Action once, Strategy once.
	if counts["RPG"] != 3 {
		t.Errorf("RPG count within RPG games should be 3, got %d", counts["RPG"])
	}
	if counts["Action"] != 1 || counts["Indie"] != 1 || counts["Strategy"] != 1 {
		t.Errorf("unexpected sibling counts: %v", counts)
	}
}

func TestFacetBaseline(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)

	facets, err := db.CategoriesWithCounts(context.Background())
	if err != nil {
		t.Fatalf("CategoriesWithCounts: %v", err)
	}
	if len(facets) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(facets))
	}
	// Ordered by count descending; RPG (3 games) must come first.
	if facets[0].Name != "RPG" || facets[0].GameCount != 3 {
		t.Errorf("expected RPG=3 first, got %s=%d", facets[0].Name, facets[0].GameCount)
	}
}

func TestGameDetails(t *testing.T) {
	db := testutil.SetupCatalog(t)
	ids := testutil.SeedGames(t, db, []testutil.SeedGame{
		{Title: "Alpha Quest", SizeMB: 500, Categories: []string{"RPG", "Indie"}},
	})

	d, err := db.GameDetails(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("GameDetails: %v", err)
	}
	if d.Title != "Alpha Quest" {
		t.Errorf("wrong game: %q", d.Title)
	}
	if len(d.MagnetLinks) != 1 {
		t.Errorf("expected 1 magnet link, got %d", len(d.MagnetLinks))
	}
	if len(d.Categories) != 2 || d.Categories[0].Name != "Indie" {
		t.Errorf("expected categories sorted by name, got %+v", d.Categories)
	}

	if _, err := db.GameDetails(context.Background(), 99999); err == nil {
		t.Error("expected error for unknown game id")
	}
}

func TestStatsAndDownloads(t *testing.T) {
	db := testutil.SetupCatalog(t)
	seedStandard(t, db)
	ctx := context.Background()

	s, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.TotalGames != 4 || s.TotalMagnets != 4 {
		t.Errorf("unexpected stats: %+v", s)
	}

	testutil.SeedDownload(t, db, 1, "Alpha Quest", "downloading", 42.5)
	rows, err := db.ListDownloads(ctx)
	if err != nil {
		t.Fatalf("ListDownloads: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != "downloading" {
		t.Fatalf("unexpected downloads: %+v", rows)
	}
}

func TestPopularRepacks(t *testing.T) {
	db := testutil.SetupCatalog(t)
	ctx := context.Background()
	for i, title := range []string{"First", "Second", "Third"} {
		err := db.SavePopularRepack(ctx, catalog.PopularRepack{
			URL: "https://example.test/" + title, Title: title, Rank: i + 1, Period: "month",
		})
		if err != nil {
			t.Fatalf("SavePopularRepack: %v", err)
		}
	}
	list, err := db.PopularRepacks(ctx, "month", 2)
	if err != nil {
		t.Fatalf("PopularRepacks: %v", err)
	}
	if len(list) != 2 || list[0].Title != "First" {
		t.Fatalf("expected top-2 by rank, got %+v", list)
	}
	if list, _ := db.PopularRepacks(ctx, "year", 10); len(list) != 0 {
		t.Error("year period should be empty")
	}
}

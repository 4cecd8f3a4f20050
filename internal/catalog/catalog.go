// Package catalog is the sqlite-backed game catalog gateway. It owns the
// schema shared with the crawler and download engine and exposes one query
// method per filter combination the browse core can resolve to.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/sqlite"

	"repackdex/internal/config"
)

type DB struct {
	SQL  *sql.DB
	Path string

	// lastSeen marks the newest catalog state the user has already viewed.
	// Games created after it are flagged IsNew. Format: "2006-01-02 15:04:05".
	lastSeen string
}

// Game is one repack row as the browse layer sees it.
type Game struct {
	ID           int64
	Title        string
	CleanName    string
	GenresTags   string
	Company      string
	Languages    string
	OriginalSize string
	RepackSize   string
	SizeMB       int64
	URL          string
	Date         string
	ImageURL     string
	IsNew        bool
}

type MagnetLink struct {
	ID       int64
	RepackID int64
	Source   string
	Magnet   string
}

type Category struct {
	ID   int64
	Name string
}

// GameDetails is the fully hydrated view fetched on selection.
type GameDetails struct {
	Game
	MagnetLinks []MagnetLink
	Categories  []Category
}

// CategoryFacet carries the per-category count relative to the active filter
// combination (excluding the category dimension itself).
type CategoryFacet struct {
	ID        int64
	Name      string
	GameCount int64
}

type Stats struct {
	TotalGames   int64
	TotalMagnets int64
}

// Open opens (creating if needed) the catalog database under the data root.
func Open(cfg *config.Config) (*DB, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if cfg.General.DataRoot == "" {
		return nil, errors.New("general.data_root required")
	}
	if err := os.MkdirAll(cfg.General.DataRoot, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.General.DataRoot, "catalog.db")
	return OpenPath(path)
}

// OpenPath opens the catalog at an explicit file path. Tests use this with a
// temp dir; ":memory:" also works.
func OpenPath(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)&_fk=1", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := initSchema(sqldb); err != nil {
		return nil, err
	}
	return &DB{SQL: sqldb, Path: path, lastSeen: "9999-12-31 23:59:59"}, nil
}

func (db *DB) Close() error { return db.SQL.Close() }

// SetLastSeen sets the cutoff for the NEW badge. Anything created after t is
// reported as new by the game queries.
func (db *DB) SetLastSeen(t time.Time) {
	db.lastSeen = t.UTC().Format("2006-01-02 15:04:05")
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS repacks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			clean_name TEXT,
			genres_tags TEXT,
			company TEXT,
			languages TEXT,
			original_size TEXT,
			repack_size TEXT,
			size INTEGER,
			url TEXT UNIQUE,
			date TEXT,
			image_url TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS magnet_links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			repack_id INTEGER NOT NULL,
			source TEXT NOT NULL,
			magnet TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (repack_id) REFERENCES repacks (id) ON DELETE CASCADE,
			UNIQUE(repack_id, source)
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS game_categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			repack_id INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (repack_id) REFERENCES repacks (id) ON DELETE CASCADE,
			FOREIGN KEY (category_id) REFERENCES categories (id) ON DELETE CASCADE,
			UNIQUE(repack_id, category_id)
		);`,
		`CREATE TABLE IF NOT EXISTS popular_repacks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			image_url TEXT,
			rank INTEGER NOT NULL,
			period TEXT NOT NULL DEFAULT 'month',
			repack_id INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (repack_id) REFERENCES repacks (id) ON DELETE SET NULL,
			UNIQUE(url, period)
		);`,
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			repack_id INTEGER NOT NULL,
			game_title TEXT NOT NULL,
			magnet_link TEXT NOT NULL,
			info_hash TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'queued',
			save_path TEXT NOT NULL,
			total_size INTEGER DEFAULT 0,
			downloaded_bytes INTEGER DEFAULT 0,
			download_speed INTEGER DEFAULT 0,
			upload_speed INTEGER DEFAULT 0,
			progress REAL DEFAULT 0.0,
			peers INTEGER DEFAULT 0,
			seeds INTEGER DEFAULT 0,
			eta_seconds INTEGER,
			error_message TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (repack_id) REFERENCES repacks (id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_repacks_title ON repacks(title);`,
		`CREATE INDEX IF NOT EXISTS idx_repacks_clean_name ON repacks(clean_name);`,
		`CREATE INDEX IF NOT EXISTS idx_repacks_date ON repacks(date);`,
		`CREATE INDEX IF NOT EXISTS idx_magnet_links_repack_id ON magnet_links(repack_id);`,
		`CREATE INDEX IF NOT EXISTS idx_game_categories_repack_id ON game_categories(repack_id);`,
		`CREATE INDEX IF NOT EXISTS idx_game_categories_category_id ON game_categories(category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_popular_repacks_period_rank ON popular_repacks(period, rank);`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_status ON downloads(status);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// GameDetails hydrates one game with its magnet links and categories.
func (db *DB) GameDetails(ctx context.Context, gameID int64) (*GameDetails, error) {
	q := `SELECT ` + gameFields + ` FROM repacks r WHERE r.id = ?`
	games, err := db.queryGames(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("game %d not found", gameID)
	}
	d := &GameDetails{Game: games[0]}

	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, repack_id, source, magnet FROM magnet_links WHERE repack_id = ?`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m MagnetLink
		if err := rows.Scan(&m.ID, &m.RepackID, &m.Source, &m.Magnet); err != nil {
			return nil, err
		}
		d.MagnetLinks = append(d.MagnetLinks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := db.SQL.QueryContext(ctx,
		`SELECT c.id, c.name FROM categories c
		 JOIN game_categories gc ON gc.category_id = c.id
		 WHERE gc.repack_id = ?
		 ORDER BY c.name`, gameID)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var c Category
		if err := crows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		d.Categories = append(d.Categories, c)
	}
	return d, crows.Err()
}

// Stats reports catalog totals. Games without magnet links are not counted;
// they are invisible to every browse query as well.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	row := db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM repacks
		 WHERE EXISTS (SELECT 1 FROM magnet_links WHERE magnet_links.repack_id = repacks.id)`)
	if err := row.Scan(&s.TotalGames); err != nil {
		return Stats{}, err
	}
	row = db.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM magnet_links`)
	if err := row.Scan(&s.TotalMagnets); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// LatestGameDate returns the release date of the newest game, if any.
func (db *DB) LatestGameDate(ctx context.Context) (string, error) {
	var date string
	err := db.SQL.QueryRowContext(ctx,
		`SELECT date FROM repacks WHERE date IS NOT NULL
		 AND EXISTS (SELECT 1 FROM magnet_links WHERE magnet_links.repack_id = repacks.id)
		 ORDER BY date DESC LIMIT 1`).Scan(&date)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return date, err
}

package catalog

import "context"

// PopularRepack is one row of the crawler-maintained popularity ranking.
type PopularRepack struct {
	ID       int64
	URL      string
	Title    string
	ImageURL string
	Rank     int
	Period   string // "month" or "year"
	RepackID int64  // 0 when the ranking entry has no catalog match
}

// PopularRepacks lists the ranking for a period, best rank first.
func (db *DB) PopularRepacks(ctx context.Context, period string, limit int) ([]PopularRepack, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, url, title, COALESCE(image_url, ''), rank, period, COALESCE(repack_id, 0)
		 FROM popular_repacks
		 WHERE period = ?
		 ORDER BY rank ASC
		 LIMIT ?`, period, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PopularRepack
	for rows.Next() {
		var p PopularRepack
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.ImageURL, &p.Rank, &p.Period, &p.RepackID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SavePopularRepack upserts one ranking entry. Exposed for the crawler and for
// test seeding; the browser itself only reads.
func (db *DB) SavePopularRepack(ctx context.Context, p PopularRepack) error {
	var repackID any
	if p.RepackID != 0 {
		repackID = p.RepackID
	}
	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO popular_repacks(url, title, image_url, rank, period, repack_id)
		 VALUES(?,?,?,?,?,?)
		 ON CONFLICT(url, period) DO UPDATE SET
			title=excluded.title, image_url=excluded.image_url,
			rank=excluded.rank, repack_id=excluded.repack_id,
			updated_at=CURRENT_TIMESTAMP`,
		p.URL, p.Title, p.ImageURL, p.Rank, p.Period, repackID)
	return err
}

package catalog

import "context"

// DownloadRow is a read-only snapshot of one torrent managed by the external
// download engine. The browser renders these, it never mutates them.
type DownloadRow struct {
	ID              int64
	RepackID        int64
	GameTitle       string
	Status          string // queued | downloading | seeding | paused | completed | error
	SavePath        string
	TotalSize       int64
	DownloadedBytes int64
	DownloadSpeed   int64
	UploadSpeed     int64
	Progress        float64
	Peers           int
	Seeds           int
	ETASeconds      int64
	ErrorMessage    string
}

// ListDownloads returns all download rows, most recently updated first.
func (db *DB) ListDownloads(ctx context.Context) ([]DownloadRow, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, repack_id, game_title, status, save_path,
			COALESCE(total_size, 0),
			COALESCE(downloaded_bytes, 0),
			COALESCE(download_speed, 0),
			COALESCE(upload_speed, 0),
			COALESCE(progress, 0),
			COALESCE(peers, 0),
			COALESCE(seeds, 0),
			COALESCE(eta_seconds, 0),
			COALESCE(error_message, '')
		 FROM downloads
		 ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DownloadRow
	for rows.Next() {
		var r DownloadRow
		if err := rows.Scan(&r.ID, &r.RepackID, &r.GameTitle, &r.Status, &r.SavePath,
			&r.TotalSize, &r.DownloadedBytes, &r.DownloadSpeed, &r.UploadSpeed,
			&r.Progress, &r.Peers, &r.Seeds, &r.ETASeconds, &r.ErrorMessage); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DownloadedRepackIDs reports which catalog games have a download row in any
// state, keyed by repack id.
func (db *DB) DownloadedRepackIDs(ctx context.Context) (map[int64]string, error) {
	rows, err := db.SQL.QueryContext(ctx, `SELECT repack_id, status FROM downloads`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		out[id] = status
	}
	return out, rows.Err()
}

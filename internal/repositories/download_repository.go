package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"linewall/internal/models"
)

type DownloadRepository struct {
	db *pgxpool.Pool
}

func NewDownloadRepository(db *pgxpool.Pool) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// RecordDownload bumps the per-template counter, creating the row on
// first download.
func (r *DownloadRepository) RecordDownload(ctx context.Context, templateID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO wallpaper_downloads (wallpaper_id, download_count)
		VALUES ($1, 1)
		ON CONFLICT (wallpaper_id)
		DO UPDATE SET
			download_count = wallpaper_downloads.download_count + 1,
			updated_at = CURRENT_TIMESTAMP
	`, templateID)
	return err
}

func (r *DownloadRepository) Stats(ctx context.Context) ([]models.DownloadStat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT wallpaper_id, download_count
		FROM wallpaper_downloads
		ORDER BY wallpaper_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DownloadStat
	for rows.Next() {
		var s models.DownloadStat
		if err := rows.Scan(&s.TemplateID, &s.DownloadCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

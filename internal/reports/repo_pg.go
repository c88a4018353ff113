package reports

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a report summary row.
func (r *PGRepo) Create(ctx context.Context, report Report) error {
	const query = `
INSERT INTO reports (
    id, project_name, file_name, file_size_mb, total_classes, total_jars, spring_version, storage_key, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		report.ID,
		report.ProjectName,
		report.FileName,
		report.FileSizeMB,
		report.TotalClasses,
		report.TotalJars,
		report.SpringVersion,
		report.StorageKey,
		report.CreatedAt,
	)
	return err
}

// GetByID returns a report by ID.
func (r *PGRepo) GetByID(ctx context.Context, reportID string) (Report, error) {
	const query = `
SELECT id, project_name, file_name, file_size_mb, total_classes, total_jars, spring_version, storage_key, created_at
FROM reports
WHERE id = $1
LIMIT 1`
	var report Report
	err := r.DB.QueryRowContext(ctx, query, reportID).Scan(
		&report.ID,
		&report.ProjectName,
		&report.FileName,
		&report.FileSizeMB,
		&report.TotalClasses,
		&report.TotalJars,
		&report.SpringVersion,
		&report.StorageKey,
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	return report, nil
}

// ListRecent lists reports ordered newest-first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	const query = `
SELECT id, project_name, file_name, file_size_mb, total_classes, total_jars, spring_version, storage_key, created_at
FROM reports
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var report Report
		if err := rows.Scan(
			&report.ID,
			&report.ProjectName,
			&report.FileName,
			&report.FileSizeMB,
			&report.TotalClasses,
			&report.TotalJars,
			&report.SpringVersion,
			&report.StorageKey,
			&report.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

const imageColumns = `id, status, original_name, source_url, staged_path, stored_file, failure_message, metadata, created_at, updated_at`

type ImageRepository struct {
	db  *sql.DB
	now func() time.Time
}

// compile-time check: *ImageRepository must satisfy port.ImageRepository
var _ port.ImageRepository = (*ImageRepository)(nil)

func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (r *ImageRepository) Create(ctx context.Context, img *model.Image) error {
	logger.Debugf(ctx, "creating database record for image #%s, at status %q...", img.ID, img.Status)

	now := r.now()
	img.CreatedAt = now
	img.UpdatedAt = now

	const query = `
      INSERT INTO images
        (id, status, original_name, source_url, staged_path, stored_file, failure_message, metadata, created_at, updated_at)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		img.ID, img.Status, img.OriginalName,
		img.SourceURL, img.StagedPath, img.StoredFile,
		img.FailureMessage, img.Metadata,
		img.CreatedAt, img.UpdatedAt,
	)
	return err
}

func (r *ImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Image, error) {
	logger.Debugf(ctx, "fetching image #%s from the database...", id)

	query := `SELECT ` + imageColumns + ` FROM images WHERE id = ?`
	img, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ConditionalUpdate only touches the row when its status is still expected,
// so two workers racing on the same record cannot both win.
func (r *ImageRepository) ConditionalUpdate(ctx context.Context, img *model.Image, expected model.ImageStatus) (bool, error) {
	logger.Debugf(ctx, "moving image #%s from %q to %q...", img.ID, expected, img.Status)

	updatedAt := r.now()
	const query = `
      UPDATE images
      SET
        status          = ?,
        staged_path     = ?,
        stored_file     = ?,
        failure_message = ?,
        metadata        = ?,
        updated_at      = ?
      WHERE id = ? AND status = ?
    `
	res, err := r.db.ExecContext(ctx, query,
		img.Status,
		img.StagedPath,
		img.StoredFile,
		img.FailureMessage,
		img.Metadata,
		updatedAt,
		img.ID, expected, // WHERE clause
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	img.UpdatedAt = updatedAt
	return true, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	logger.Debugf(ctx, "deleting image #%s from the database...", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ImageRepository) List(ctx context.Context, limit, offset int) ([]*model.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectImages(rows)
}

func (r *ImageRepository) ListByStatusBefore(ctx context.Context, status model.ImageStatus, before time.Time) ([]*model.Image, error) {
	logger.Debugf(ctx, "listing images at status %q untouched since %s...", status, before.Format(time.RFC3339))

	query := `SELECT ` + imageColumns + ` FROM images WHERE status = ? AND updated_at < ? ORDER BY updated_at`
	rows, err := r.db.QueryContext(ctx, query, status, before.UTC())
	if err != nil {
		return nil, err
	}
	return collectImages(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*model.Image, error) {
	var img model.Image
	if err := row.Scan(
		&img.ID, &img.Status, &img.OriginalName,
		&img.SourceURL, &img.StagedPath, &img.StoredFile,
		&img.FailureMessage, &img.Metadata,
		&img.CreatedAt, &img.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &img, nil
}

func collectImages(rows *sql.Rows) ([]*model.Image, error) {
	defer func() { _ = rows.Close() }()

	var out []*model.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

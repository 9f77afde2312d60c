package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
)

// ImageRepository handles image asset metadata database operations
type ImageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewImageRepository creates a new image repository
func NewImageRepository(db *sql.DB, logger *zap.Logger) *ImageRepository {
	return &ImageRepository{db: db, logger: logger}
}

// Create inserts a new image asset record
func (r *ImageRepository) Create(tx *sql.Tx, asset *entity.ImageAsset) error {
	query := `
		INSERT INTO image_assets (project_id, source, owner_id, file_path, mime_type, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	args := []interface{}{
		asset.ProjectID,
		asset.Source,
		asset.OwnerID,
		asset.FilePath,
		asset.MimeType,
		asset.SizeBytes,
	}

	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}

	if err != nil {
		r.logger.Error("Failed to create image asset", zap.Error(err))
		return fmt.Errorf("failed to create image asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	asset.ID = id
	return nil
}

// GetByProjectAndSource retrieves a project's image assets from one source,
// ordered by creation time ascending (the export numbering order)
func (r *ImageRepository) GetByProjectAndSource(projectID int64, source string) ([]*entity.ImageAsset, error) {
	query := `
		SELECT id, project_id, source, owner_id, file_path, mime_type, size_bytes, created_at
		FROM image_assets
		WHERE project_id = ? AND source = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, projectID, source)
	if err != nil {
		r.logger.Error("Failed to get image assets",
			zap.Int64("project_id", projectID),
			zap.String("source", source),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get image assets: %w", err)
	}
	defer rows.Close()

	var assets []*entity.ImageAsset
	for rows.Next() {
		var a entity.ImageAsset
		err := rows.Scan(
			&a.ID,
			&a.ProjectID,
			&a.Source,
			&a.OwnerID,
			&a.FilePath,
			&a.MimeType,
			&a.SizeBytes,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image asset: %w", err)
		}
		assets = append(assets, &a)
	}

	return assets, rows.Err()
}

// GetByOwner retrieves image assets belonging to one progress update or
// final submission
func (r *ImageRepository) GetByOwner(source string, ownerID int64) ([]*entity.ImageAsset, error) {
	query := `
		SELECT id, project_id, source, owner_id, file_path, mime_type, size_bytes, created_at
		FROM image_assets
		WHERE source = ? AND owner_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, source, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get image assets: %w", err)
	}
	defer rows.Close()

	var assets []*entity.ImageAsset
	for rows.Next() {
		var a entity.ImageAsset
		err := rows.Scan(
			&a.ID,
			&a.ProjectID,
			&a.Source,
			&a.OwnerID,
			&a.FilePath,
			&a.MimeType,
			&a.SizeBytes,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image asset: %w", err)
		}
		assets = append(assets, &a)
	}

	return assets, rows.Err()
}

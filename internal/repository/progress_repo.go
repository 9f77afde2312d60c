package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
)

// ProgressRepository handles progress update database operations
type ProgressRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *sql.DB, logger *zap.Logger) *ProgressRepository {
	return &ProgressRepository{db: db, logger: logger}
}

// Create inserts a new progress update
func (r *ProgressRepository) Create(tx *sql.Tx, update *entity.ProgressUpdate) error {
	query := `
		INSERT INTO progress_updates (project_id, leader_id, description, percentage)
		VALUES (?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	if tx != nil {
		result, err = tx.Exec(query, update.ProjectID, update.LeaderID, update.Description, update.Percentage)
	} else {
		result, err = r.db.Exec(query, update.ProjectID, update.LeaderID, update.Description, update.Percentage)
	}

	if err != nil {
		r.logger.Error("Failed to create progress update", zap.Error(err))
		return fmt.Errorf("failed to create progress update: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	update.ID = id
	return nil
}

// GetByProjectID retrieves all progress updates of a project, oldest first
func (r *ProgressRepository) GetByProjectID(projectID int64) ([]*entity.ProgressUpdate, error) {
	query := `
		SELECT id, project_id, leader_id, description, percentage, created_at
		FROM progress_updates
		WHERE project_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		r.logger.Error("Failed to get progress updates", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("failed to get progress updates: %w", err)
	}
	defer rows.Close()

	var updates []*entity.ProgressUpdate
	for rows.Next() {
		var u entity.ProgressUpdate
		err := rows.Scan(&u.ID, &u.ProjectID, &u.LeaderID, &u.Description, &u.Percentage, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress update: %w", err)
		}
		updates = append(updates, &u)
	}

	return updates, rows.Err()
}

package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
)

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

// Create inserts a new project
func (r *ProjectRepository) Create(project *entity.Project) error {
	query := `
		INSERT INTO projects (name, leader_id, description, status, start_date)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		project.Name,
		project.LeaderID,
		project.Description,
		project.Status,
		project.StartDate,
	)
	if err != nil {
		r.logger.Error("Failed to create project", zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	project.ID = id
	return nil
}

// GetByID retrieves a project by ID. Returns nil when not found.
func (r *ProjectRepository) GetByID(id int64) (*entity.Project, error) {
	query := `
		SELECT id, name, leader_id, description, status, start_date, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	var p entity.Project
	err := r.db.QueryRow(query, id).Scan(
		&p.ID,
		&p.Name,
		&p.LeaderID,
		&p.Description,
		&p.Status,
		&p.StartDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// List retrieves all projects, newest first
func (r *ProjectRepository) List() ([]*entity.Project, error) {
	query := `
		SELECT id, name, leader_id, description, status, start_date, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		var p entity.Project
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.LeaderID,
			&p.Description,
			&p.Status,
			&p.StartDate,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}

	return projects, rows.Err()
}

package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
)

// HistoryRepository handles review history database operations.
// History is append-only: there are no update or delete operations.
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) *HistoryRepository {
	return &HistoryRepository{db: db, logger: logger}
}

// Create appends a new history record
func (r *HistoryRepository) Create(tx *sql.Tx, history *entity.ReviewHistoryEntry) error {
	query := `
		INSERT INTO review_history (
			request_id, actor_id, actor_role, action,
			previous_status, new_status, comment
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	args := []interface{}{
		history.RequestID,
		history.ActorID,
		history.ActorRole,
		history.Action,
		history.PreviousStatus,
		history.NewStatus,
		history.Comment,
	}

	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}

	if err != nil {
		r.logger.Error("Failed to create history record", zap.Error(err))
		return fmt.Errorf("failed to create history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	history.ID = id
	return nil
}

// GetByRequestID retrieves all history records for a request, oldest first
func (r *HistoryRepository) GetByRequestID(requestID int64) ([]*entity.ReviewHistoryEntry, error) {
	query := `
		SELECT id, request_id, actor_id, actor_role, action,
			previous_status, new_status, comment, timestamp
		FROM review_history
		WHERE request_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, requestID)
	if err != nil {
		r.logger.Error("Failed to get history", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []*entity.ReviewHistoryEntry
	for rows.Next() {
		var record entity.ReviewHistoryEntry
		err := rows.Scan(
			&record.ID,
			&record.RequestID,
			&record.ActorID,
			&record.ActorRole,
			&record.Action,
			&record.PreviousStatus,
			&record.NewStatus,
			&record.Comment,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

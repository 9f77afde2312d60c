package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
)

// PaymentRequestRepository handles payment request database operations
type PaymentRequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRequestRepository creates a new payment request repository
func NewPaymentRequestRepository(db *sql.DB, logger *zap.Logger) *PaymentRequestRepository {
	return &PaymentRequestRepository{db: db, logger: logger}
}

// Create inserts a new payment request
func (r *PaymentRequestRepository) Create(tx *sql.Tx, req *entity.PaymentRequest) error {
	query := `
		INSERT INTO payment_requests (
			reference, project_id, leader_id, status, stored_total, comment, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	args := []interface{}{
		req.Reference,
		req.ProjectID,
		req.LeaderID,
		req.Status,
		req.StoredTotal.String(),
		req.Comment,
		req.SubmittedAt,
	}

	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}

	if err != nil {
		r.logger.Error("Failed to create payment request", zap.Error(err))
		return fmt.Errorf("failed to create payment request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	return nil
}

const paymentRequestColumns = `
	id, reference, project_id, leader_id, status, stored_total, comment,
	submitted_at, created_at, updated_at
`

// GetByID retrieves a payment request by ID. Returns nil when not found.
func (r *PaymentRequestRepository) GetByID(id int64) (*entity.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests WHERE id = ?`

	req, err := r.scanOne(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get payment request", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get payment request: %w", err)
	}
	return req, nil
}

// ListByLeader retrieves a leader's own requests, newest submission first
func (r *PaymentRequestRepository) ListByLeader(leaderID string) ([]*entity.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + `
		FROM payment_requests
		WHERE leader_id = ?
		ORDER BY submitted_at DESC`
	return r.queryMany(query, leaderID)
}

// ListByStatus retrieves requests in the given status, newest submission first
func (r *PaymentRequestRepository) ListByStatus(status string) ([]*entity.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + `
		FROM payment_requests
		WHERE status = ?
		ORDER BY submitted_at DESC`
	return r.queryMany(query, status)
}

// ListByProject retrieves all requests of a project, newest submission first
func (r *PaymentRequestRepository) ListByProject(projectID int64) ([]*entity.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + `
		FROM payment_requests
		WHERE project_id = ?
		ORDER BY submitted_at DESC`
	return r.queryMany(query, projectID)
}

// ListAll retrieves every request, newest submission first
func (r *PaymentRequestRepository) ListAll() ([]*entity.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + `
		FROM payment_requests
		ORDER BY submitted_at DESC`
	return r.queryMany(query)
}

// UpdateStatusFrom flips the status only when the stored status still equals
// expected. Returns false when no row matched, which means a concurrent
// reviewer won the race or the caller's view of the request is stale.
func (r *PaymentRequestRepository) UpdateStatusFrom(tx *sql.Tx, id int64, expected, next, comment string) (bool, error) {
	query := `
		UPDATE payment_requests
		SET status = ?, comment = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	var result sql.Result
	var err error

	if tx != nil {
		result, err = tx.Exec(query, next, comment, id, expected)
	} else {
		result, err = r.db.Exec(query, next, comment, id, expected)
	}

	if err != nil {
		r.logger.Error("Failed to update payment request status",
			zap.Int64("id", id),
			zap.String("expected", expected),
			zap.String("next", next),
			zap.Error(err))
		return false, fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *PaymentRequestRepository) queryMany(query string, args ...interface{}) ([]*entity.PaymentRequest, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list payment requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.PaymentRequest
	for rows.Next() {
		req, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PaymentRequestRepository) scanOne(row rowScanner) (*entity.PaymentRequest, error) {
	var req entity.PaymentRequest
	var storedTotal string

	err := row.Scan(
		&req.ID,
		&req.Reference,
		&req.ProjectID,
		&req.LeaderID,
		&req.Status,
		&storedTotal,
		&req.Comment,
		&req.SubmittedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	total, err := decimal.NewFromString(storedTotal)
	if err != nil {
		return nil, fmt.Errorf("stored total %q is not a decimal: %w", storedTotal, err)
	}
	req.StoredTotal = total
	return &req, nil
}

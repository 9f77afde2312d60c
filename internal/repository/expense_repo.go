package repository

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
)

// ExpenseRepository handles expense line item database operations
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{db: db, logger: logger}
}

// Create inserts a new expense line item
func (r *ExpenseRepository) Create(tx *sql.Tx, expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (request_id, type, custom_label, cost, remarks, image_ids)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	args := []interface{}{
		expense.RequestID,
		expense.Type,
		expense.CustomLabel,
		expense.Cost.String(),
		expense.Remarks,
		joinIDs(expense.ImageIDs),
	}

	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}

	if err != nil {
		r.logger.Error("Failed to create expense", zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	expense.ID = id
	return nil
}

// GetByRequestID retrieves all expenses for a payment request
func (r *ExpenseRepository) GetByRequestID(requestID int64) ([]*entity.Expense, error) {
	query := `
		SELECT id, request_id, type, custom_label, cost, remarks, image_ids, created_at
		FROM expenses
		WHERE request_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, requestID)
	if err != nil {
		r.logger.Error("Failed to get expenses", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		var cost, imageIDs string
		err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&e.Type,
			&e.CustomLabel,
			&cost,
			&e.Remarks,
			&imageIDs,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Cost, err = decimal.NewFromString(cost)
		if err != nil {
			return nil, fmt.Errorf("expense cost %q is not a decimal: %w", cost, err)
		}
		e.ImageIDs, err = splitIDs(imageIDs)
		if err != nil {
			return nil, fmt.Errorf("expense image refs %q are malformed: %w", imageIDs, err)
		}
		expenses = append(expenses, &e)
	}

	return expenses, rows.Err()
}

// joinIDs serializes image asset references as a comma separated list
func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func splitIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package review

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RequestRepository defines persistence operations for PaymentRequest
type RequestRepository interface {
	Create(tx *sql.Tx, req *entity.PaymentRequest) error
	GetByID(id int64) (*entity.PaymentRequest, error)
	ListByLeader(leaderID string) ([]*entity.PaymentRequest, error)
	ListByStatus(status string) ([]*entity.PaymentRequest, error)
	ListAll() ([]*entity.PaymentRequest, error)
	UpdateStatusFrom(tx *sql.Tx, id int64, expected, next, comment string) (bool, error)
}

// ExpenseRepository defines persistence operations for Expense
type ExpenseRepository interface {
	Create(tx *sql.Tx, expense *entity.Expense) error
	GetByRequestID(requestID int64) ([]*entity.Expense, error)
}

// HistoryRepository defines persistence operations for ReviewHistoryEntry
type HistoryRepository interface {
	Create(tx *sql.Tx, history *entity.ReviewHistoryEntry) error
	GetByRequestID(requestID int64) ([]*entity.ReviewHistoryEntry, error)
}

// TransactionManager runs a function inside a database transaction
type TransactionManager interface {
	WithTransaction(fn func(*sql.Tx) error) error
}

// Actor is the identity performing an action, threaded explicitly through
// every call rather than read from ambient state
type Actor struct {
	ID   string
	Role string
}

// Service applies the review state machine to stored payment requests
type Service struct {
	requests RequestRepository
	expenses ExpenseRepository
	history  HistoryRepository
	tx       TransactionManager
	machine  *workflow.Machine
	logger   Logger
}

// NewService creates a new review service
func NewService(
	requests RequestRepository,
	expenses ExpenseRepository,
	history HistoryRepository,
	tx TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		requests: requests,
		expenses: expenses,
		history:  history,
		tx:       tx,
		machine:  workflow.NewReviewMachine(),
		logger:   logger,
	}
}

// Submit creates a new payment request in PENDING state along with its
// expense line items and the initial history entry, all in one transaction.
func (s *Service) Submit(ctx context.Context, projectID int64, leader Actor, expenses []*entity.Expense, storedTotal decimal.Decimal) (*entity.PaymentRequest, error) {
	if leader.Role != entity.RoleLeader {
		return nil, fmt.Errorf("%w: %s cannot submit payment requests", ErrRoleNotAllowed, leader.Role)
	}
	if len(expenses) == 0 && storedTotal.IsZero() {
		return nil, ErrNoExpenses
	}
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}

	req := &entity.PaymentRequest{
		Reference:   uuid.NewString(),
		ProjectID:   projectID,
		LeaderID:    leader.ID,
		Status:      entity.StatusPending,
		Expenses:    expenses,
		StoredTotal: storedTotal,
		SubmittedAt: time.Now(),
	}

	err := s.tx.WithTransaction(func(tx *sql.Tx) error {
		if err := s.requests.Create(tx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		for _, e := range expenses {
			e.RequestID = req.ID
			if err := s.expenses.Create(tx, e); err != nil {
				return fmt.Errorf("create expense: %w", err)
			}
		}
		history := &entity.ReviewHistoryEntry{
			RequestID:      req.ID,
			ActorID:        leader.ID,
			ActorRole:      leader.Role,
			Action:         entity.ActionSubmit,
			PreviousStatus: "",
			NewStatus:      entity.StatusPending,
			Timestamp:      time.Now(),
		}
		if err := s.history.Create(tx, history); err != nil {
			return fmt.Errorf("create history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit payment request", "error", err, "project_id", projectID)
		return nil, err
	}

	s.logger.Info("Payment request submitted",
		"id", req.ID, "reference", req.Reference, "total", req.Total().String())
	return req, nil
}

// Approve moves a pending request to APPROVED. The comment is optional.
func (s *Service) Approve(ctx context.Context, requestID int64, checker Actor, comment string) (*entity.PaymentRequest, error) {
	if checker.Role != entity.RoleChecker {
		return nil, fmt.Errorf("%w: %s cannot review payment requests", ErrRoleNotAllowed, checker.Role)
	}
	return s.transition(ctx, requestID, checker, workflow.TriggerApprove, entity.ActionApprove, comment)
}

// Reject moves a pending request to REJECTED. A non-empty comment is
// mandatory; a blank or whitespace-only comment fails before any store
// write or remote mutation is attempted.
func (s *Service) Reject(ctx context.Context, requestID int64, checker Actor, comment string) (*entity.PaymentRequest, error) {
	if checker.Role != entity.RoleChecker {
		return nil, fmt.Errorf("%w: %s cannot review payment requests", ErrRoleNotAllowed, checker.Role)
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrEmptyComment
	}
	return s.transition(ctx, requestID, checker, workflow.TriggerReject, entity.ActionReject, comment)
}

// Schedule moves an approved request to SCHEDULED (owner/admin action)
func (s *Service) Schedule(ctx context.Context, requestID int64, actor Actor) (*entity.PaymentRequest, error) {
	if actor.Role != entity.RoleOwner && actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: %s cannot schedule payments", ErrRoleNotAllowed, actor.Role)
	}
	return s.transition(ctx, requestID, actor, workflow.TriggerSchedule, entity.ActionSchedule, "")
}

// MarkPaid moves a scheduled request to PAID (owner/admin action)
func (s *Service) MarkPaid(ctx context.Context, requestID int64, actor Actor) (*entity.PaymentRequest, error) {
	if actor.Role != entity.RoleOwner && actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: %s cannot mark payments as paid", ErrRoleNotAllowed, actor.Role)
	}
	return s.transition(ctx, requestID, actor, workflow.TriggerPay, entity.ActionPay, "")
}

// transition validates the trigger against the machine, then applies it with
// a compare-and-set on the stored status. Losing the CAS means another
// reviewer got there first; that surfaces as ErrInvalidTransition so the
// caller knows to refetch.
func (s *Service) transition(ctx context.Context, requestID int64, actor Actor, trigger workflow.Trigger, action, comment string) (*entity.PaymentRequest, error) {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}

	next, err := s.machine.Fire(workflow.State(req.Status), trigger)
	if err != nil {
		s.logger.Info("Transition refused",
			"id", requestID, "status", req.Status, "trigger", trigger.String())
		return nil, err
	}

	err = s.tx.WithTransaction(func(tx *sql.Tx) error {
		ok, err := s.requests.UpdateStatusFrom(tx, requestID, req.Status, next.String(), comment)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: request %d is no longer %s", workflow.ErrInvalidTransition, requestID, req.Status)
		}
		history := &entity.ReviewHistoryEntry{
			RequestID:      requestID,
			ActorID:        actor.ID,
			ActorRole:      actor.Role,
			Action:         action,
			PreviousStatus: req.Status,
			NewStatus:      next.String(),
			Comment:        comment,
			Timestamp:      time.Now(),
		}
		return s.history.Create(tx, history)
	})
	if err != nil {
		s.logger.Error("Failed to apply transition",
			"error", err, "id", requestID, "trigger", trigger.String())
		return nil, err
	}

	req.Status = next.String()
	req.Comment = comment
	s.logger.Info("Payment request transitioned",
		"id", requestID, "status", req.Status, "actor", actor.ID)
	return req, nil
}

// Get retrieves a single payment request with its expenses
func (s *Service) Get(ctx context.Context, requestID int64) (*entity.PaymentRequest, error) {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}
	req.Expenses, err = s.expenses.GetByRequestID(req.ID)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ListForViewer returns the requests relevant to the viewer: a leader sees
// their own submissions, a checker sees the pending queue, owners and
// admins see everything. Results are sorted by submission date descending.
func (s *Service) ListForViewer(ctx context.Context, viewer Actor) ([]*entity.PaymentRequest, error) {
	var (
		requests []*entity.PaymentRequest
		err      error
	)

	switch viewer.Role {
	case entity.RoleLeader:
		requests, err = s.requests.ListByLeader(viewer.ID)
	case entity.RoleChecker:
		requests, err = s.requests.ListByStatus(entity.StatusPending)
	case entity.RoleOwner, entity.RoleAdmin:
		requests, err = s.requests.ListAll()
	default:
		return nil, fmt.Errorf("%w: unknown role %s", ErrRoleNotAllowed, viewer.Role)
	}
	if err != nil {
		return nil, err
	}

	for _, req := range requests {
		req.Expenses, err = s.expenses.GetByRequestID(req.ID)
		if err != nil {
			return nil, err
		}
	}
	return requests, nil
}

// History returns the append-only audit trail of a request, oldest first
func (s *Service) History(ctx context.Context, requestID int64) ([]*entity.ReviewHistoryEntry, error) {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}
	return s.history.GetByRequestID(requestID)
}

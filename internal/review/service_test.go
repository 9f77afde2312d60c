package review

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/entity"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/domain/workflow"
)

// Mock repositories

type mockRequestRepo struct {
	createFunc           func(tx *sql.Tx, req *entity.PaymentRequest) error
	getByIDFunc          func(id int64) (*entity.PaymentRequest, error)
	listByLeaderFunc     func(leaderID string) ([]*entity.PaymentRequest, error)
	listByStatusFunc     func(status string) ([]*entity.PaymentRequest, error)
	listAllFunc          func() ([]*entity.PaymentRequest, error)
	updateStatusFromFunc func(tx *sql.Tx, id int64, expected, next, comment string) (bool, error)

	updateCalls int
}

func (m *mockRequestRepo) Create(tx *sql.Tx, req *entity.PaymentRequest) error {
	if m.createFunc != nil {
		return m.createFunc(tx, req)
	}
	req.ID = 1
	return nil
}

func (m *mockRequestRepo) GetByID(id int64) (*entity.PaymentRequest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(id)
	}
	return &entity.PaymentRequest{ID: id, Status: entity.StatusPending}, nil
}

func (m *mockRequestRepo) ListByLeader(leaderID string) ([]*entity.PaymentRequest, error) {
	if m.listByLeaderFunc != nil {
		return m.listByLeaderFunc(leaderID)
	}
	return nil, nil
}

func (m *mockRequestRepo) ListByStatus(status string) ([]*entity.PaymentRequest, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(status)
	}
	return nil, nil
}

func (m *mockRequestRepo) ListAll() ([]*entity.PaymentRequest, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc()
	}
	return nil, nil
}

func (m *mockRequestRepo) UpdateStatusFrom(tx *sql.Tx, id int64, expected, next, comment string) (bool, error) {
	m.updateCalls++
	if m.updateStatusFromFunc != nil {
		return m.updateStatusFromFunc(tx, id, expected, next, comment)
	}
	return true, nil
}

type mockExpenseRepo struct {
	createFunc         func(tx *sql.Tx, expense *entity.Expense) error
	getByRequestIDFunc func(requestID int64) ([]*entity.Expense, error)
}

func (m *mockExpenseRepo) Create(tx *sql.Tx, expense *entity.Expense) error {
	if m.createFunc != nil {
		return m.createFunc(tx, expense)
	}
	return nil
}

func (m *mockExpenseRepo) GetByRequestID(requestID int64) ([]*entity.Expense, error) {
	if m.getByRequestIDFunc != nil {
		return m.getByRequestIDFunc(requestID)
	}
	return nil, nil
}

type mockHistoryRepo struct {
	created []*entity.ReviewHistoryEntry
}

func (m *mockHistoryRepo) Create(tx *sql.Tx, history *entity.ReviewHistoryEntry) error {
	m.created = append(m.created, history)
	return nil
}

func (m *mockHistoryRepo) GetByRequestID(requestID int64) ([]*entity.ReviewHistoryEntry, error) {
	return m.created, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(fn func(*sql.Tx) error) error {
	return fn(nil)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestService() (*Service, *mockRequestRepo, *mockHistoryRepo) {
	requests := &mockRequestRepo{}
	history := &mockHistoryRepo{}
	svc := NewService(requests, &mockExpenseRepo{}, history, &mockTxManager{}, &mockLogger{})
	return svc, requests, history
}

var (
	leader  = Actor{ID: "leader-1", Role: entity.RoleLeader}
	checker = Actor{ID: "checker-1", Role: entity.RoleChecker}
	owner   = Actor{ID: "owner-1", Role: entity.RoleOwner}
)

func TestSubmit_CreatesPendingRequestWithHistory(t *testing.T) {
	svc, _, history := newTestService()

	expenses := []*entity.Expense{
		{Type: entity.ExpenseTypeLabor, Cost: decimal.NewFromFloat(500)},
		{Type: entity.ExpenseTypeMaterials, Cost: decimal.NewFromFloat(1500.50)},
	}

	req, err := svc.Submit(context.Background(), 7, leader, expenses, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, req.Status)
	assert.NotEmpty(t, req.Reference)
	assert.Equal(t, "2000.5", req.Total().String())

	require.Len(t, history.created, 1)
	assert.Equal(t, entity.ActionSubmit, history.created[0].Action)
	assert.Equal(t, entity.StatusPending, history.created[0].NewStatus)
}

func TestSubmit_RejectsInvalidExpenses(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name     string
		expenses []*entity.Expense
		wantErr  error
	}{
		{
			name:     "other type without custom label",
			expenses: []*entity.Expense{{Type: entity.ExpenseTypeOther, Cost: decimal.NewFromInt(10)}},
			wantErr:  entity.ErrOtherLabelRequired,
		},
		{
			name:     "negative cost",
			expenses: []*entity.Expense{{Type: entity.ExpenseTypeFuel, Cost: decimal.NewFromInt(-5)}},
			wantErr:  entity.ErrNegativeCost,
		},
		{
			name:     "nothing to pay",
			expenses: nil,
			wantErr:  ErrNoExpenses,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), 7, leader, tt.expenses, decimal.Zero)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmit_RejectsNonLeader(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Submit(context.Background(), 7, checker, nil, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestReject_EmptyCommentFailsBeforeAnyWrite(t *testing.T) {
	svc, requests, history := newTestService()

	for _, comment := range []string{"", "   ", "\t\n"} {
		_, err := svc.Reject(context.Background(), 1, checker, comment)
		assert.ErrorIs(t, err, ErrEmptyComment)
	}

	assert.Zero(t, requests.updateCalls, "no status write may happen on a refused rejection")
	assert.Empty(t, history.created)
}

func TestReject_WithCommentAppendsHistory(t *testing.T) {
	svc, _, history := newTestService()

	req, err := svc.Reject(context.Background(), 1, checker, "receipts missing for labor charges")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusRejected, req.Status)
	require.Len(t, history.created, 1)
	assert.Equal(t, entity.ActionReject, history.created[0].Action)
	assert.Equal(t, "receipts missing for labor charges", history.created[0].Comment)
	assert.Equal(t, entity.StatusPending, history.created[0].PreviousStatus)
}

func TestApprove_DuplicateReviewFails(t *testing.T) {
	svc, requests, _ := newTestService()
	requests.getByIDFunc = func(id int64) (*entity.PaymentRequest, error) {
		return &entity.PaymentRequest{ID: id, Status: entity.StatusApproved}, nil
	}

	_, err := svc.Approve(context.Background(), 1, checker, "")
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.Zero(t, requests.updateCalls)
}

func TestTransition_NeverRegressesFromTerminalStates(t *testing.T) {
	for _, status := range []string{entity.StatusPaid, entity.StatusRejected} {
		t.Run(status, func(t *testing.T) {
			svc, requests, _ := newTestService()
			requests.getByIDFunc = func(id int64) (*entity.PaymentRequest, error) {
				return &entity.PaymentRequest{ID: id, Status: status}, nil
			}

			_, err := svc.Approve(context.Background(), 1, checker, "")
			assert.ErrorIs(t, err, workflow.ErrInvalidTransition)

			_, err = svc.Schedule(context.Background(), 1, owner)
			assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
		})
	}
}

func TestTransition_LostRaceSurfacesAsInvalidTransition(t *testing.T) {
	svc, requests, history := newTestService()
	requests.updateStatusFromFunc = func(tx *sql.Tx, id int64, expected, next, comment string) (bool, error) {
		// Another checker reviewed the request between read and write
		return false, nil
	}

	_, err := svc.Approve(context.Background(), 1, checker, "")
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.Empty(t, history.created, "no history entry may exist for a lost race")
}

func TestSchedule_RequiresOwnerOrAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Schedule(context.Background(), 1, checker)
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestFullLifecycle(t *testing.T) {
	svc, requests, history := newTestService()
	status := entity.StatusPending
	requests.getByIDFunc = func(id int64) (*entity.PaymentRequest, error) {
		return &entity.PaymentRequest{ID: id, Status: status}, nil
	}
	requests.updateStatusFromFunc = func(tx *sql.Tx, id int64, expected, next, comment string) (bool, error) {
		if expected != status {
			return false, nil
		}
		status = next
		return true, nil
	}

	_, err := svc.Approve(context.Background(), 1, checker, "looks complete")
	require.NoError(t, err)

	_, err = svc.Schedule(context.Background(), 1, owner)
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), 1, owner)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPaid, status)
	require.Len(t, history.created, 3)
	assert.Equal(t, entity.ActionPay, history.created[2].Action)
}

func TestListForViewer_FiltersByRole(t *testing.T) {
	svc, requests, _ := newTestService()

	var leaderQuery, statusQuery string
	listedAll := false
	requests.listByLeaderFunc = func(leaderID string) ([]*entity.PaymentRequest, error) {
		leaderQuery = leaderID
		return nil, nil
	}
	requests.listByStatusFunc = func(status string) ([]*entity.PaymentRequest, error) {
		statusQuery = status
		return nil, nil
	}
	requests.listAllFunc = func() ([]*entity.PaymentRequest, error) {
		listedAll = true
		return nil, nil
	}

	_, err := svc.ListForViewer(context.Background(), leader)
	require.NoError(t, err)
	assert.Equal(t, leader.ID, leaderQuery)

	_, err = svc.ListForViewer(context.Background(), checker)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, statusQuery)

	_, err = svc.ListForViewer(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, listedAll)

	_, err = svc.ListForViewer(context.Background(), Actor{ID: "x", Role: "VISITOR"})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestGet_NotFound(t *testing.T) {
	svc, requests, _ := newTestService()
	requests.getByIDFunc = func(id int64) (*entity.PaymentRequest, error) {
		return nil, nil
	}

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.History(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_PropagatesRepositoryError(t *testing.T) {
	svc, requests, _ := newTestService()
	dbErr := errors.New("disk I/O error")
	requests.getByIDFunc = func(id int64) (*entity.PaymentRequest, error) {
		return nil, dbErr
	}

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, dbErr)
}

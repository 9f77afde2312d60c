package entity

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPaymentRequestTotal(t *testing.T) {
	tests := []struct {
		name     string
		expenses []*Expense
		stored   string
		want     string
	}{
		{
			name:   "no expenses uses stored total",
			stored: "1500.00",
			want:   "1500",
		},
		{
			name: "expenses override stored total",
			expenses: []*Expense{
				{Type: ExpenseTypeLabor, Cost: decimal.RequireFromString("1200.25")},
				{Type: ExpenseTypeFuel, Cost: decimal.RequireFromString("800.25")},
			},
			stored: "99999",
			want:   "2000.5",
		},
		{
			name: "single expense",
			expenses: []*Expense{
				{Type: ExpenseTypeMaterials, Cost: decimal.RequireFromString("0.10")},
			},
			stored: "0",
			want:   "0.1",
		},
		{
			name:   "zero everywhere",
			stored: "0",
			want:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &PaymentRequest{
				Expenses:    tt.expenses,
				StoredTotal: decimal.RequireFromString(tt.stored),
			}
			if got := r.Total(); got.String() != tt.want {
				t.Errorf("Total() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExpenseValidate(t *testing.T) {
	tests := []struct {
		name    string
		expense Expense
		wantErr error
	}{
		{
			name:    "valid labor expense",
			expense: Expense{Type: ExpenseTypeLabor, Cost: decimal.NewFromInt(500)},
		},
		{
			name:    "zero cost is allowed",
			expense: Expense{Type: ExpenseTypeFood, Cost: decimal.Zero},
		},
		{
			name:    "negative cost",
			expense: Expense{Type: ExpenseTypeFuel, Cost: decimal.NewFromInt(-1)},
			wantErr: ErrNegativeCost,
		},
		{
			name:    "other without label",
			expense: Expense{Type: ExpenseTypeOther, Cost: decimal.NewFromInt(10)},
			wantErr: ErrOtherLabelRequired,
		},
		{
			name:    "other with whitespace label",
			expense: Expense{Type: ExpenseTypeOther, CustomLabel: "   ", Cost: decimal.NewFromInt(10)},
			wantErr: ErrOtherLabelRequired,
		},
		{
			name:    "other with label",
			expense: Expense{Type: ExpenseTypeOther, CustomLabel: "Scaffolding rent", Cost: decimal.NewFromInt(10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseLabel(t *testing.T) {
	e := &Expense{Type: ExpenseTypeOther, CustomLabel: "Crane hire"}
	if got := e.Label(); got != "Crane hire" {
		t.Errorf("Label() = %q, want %q", got, "Crane hire")
	}
	e = &Expense{Type: ExpenseTypeTransport}
	if got := e.Label(); got != ExpenseTypeTransport {
		t.Errorf("Label() = %q, want %q", got, ExpenseTypeTransport)
	}
}

package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOtherLabelRequired is returned when an OTHER expense has no custom label
var ErrOtherLabelRequired = errors.New("expense of type OTHER requires a custom label")

// ErrNegativeCost is returned when an expense cost is below zero
var ErrNegativeCost = errors.New("expense cost must not be negative")

// PaymentRequest represents a leader's request for payment against a project
type PaymentRequest struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference"`
	ProjectID   int64           `json:"project_id"`
	LeaderID    string          `json:"leader_id"`
	Status      string          `json:"status"`
	Expenses    []*Expense      `json:"expenses,omitempty"`
	StoredTotal decimal.Decimal `json:"stored_total"`
	Comment     string          `json:"comment,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Total returns the authoritative amount of the request. When expense line
// items are present the total is their sum; the stored scalar is used only
// for requests persisted without itemized expenses.
func (r *PaymentRequest) Total() decimal.Decimal {
	if len(r.Expenses) == 0 {
		return r.StoredTotal
	}
	total := decimal.Zero
	for _, e := range r.Expenses {
		total = total.Add(e.Cost)
	}
	return total
}

// Expense is a single costed line item within a payment request
type Expense struct {
	ID          int64           `json:"id"`
	RequestID   int64           `json:"request_id"`
	Type        string          `json:"type"`
	CustomLabel string          `json:"custom_label,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	Remarks     string          `json:"remarks,omitempty"`
	ImageIDs    []int64         `json:"image_ids,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Validate checks the expense invariants before submission
func (e *Expense) Validate() error {
	if e.Cost.IsNegative() {
		return ErrNegativeCost
	}
	if e.Type == ExpenseTypeOther && strings.TrimSpace(e.CustomLabel) == "" {
		return ErrOtherLabelRequired
	}
	return nil
}

// Label returns the display label for the expense type
func (e *Expense) Label() string {
	if e.Type == ExpenseTypeOther && e.CustomLabel != "" {
		return e.CustomLabel
	}
	return e.Type
}

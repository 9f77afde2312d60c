package review

import "errors"

var (
	// ErrEmptyComment is returned when a rejection carries no comment.
	// The transition is refused before any store write happens.
	ErrEmptyComment = errors.New("rejection requires a non-empty comment")

	// ErrNotFound is returned when the payment request does not exist
	ErrNotFound = errors.New("payment request not found")

	// ErrRoleNotAllowed is returned when the actor's role may not perform the action
	ErrRoleNotAllowed = errors.New("role not permitted to perform this action")

	// ErrNoExpenses is returned when a submission carries neither
	// expense line items nor a stored total
	ErrNoExpenses = errors.New("payment request needs expenses or a total amount")
)

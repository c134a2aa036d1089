package domain

import "errors"

var (
	// ErrNotFound is the root of every lookup failure; the specific errors below wrap it.
	ErrNotFound = errors.New("not found")

	ErrPartyNotFound   = wrapNotFound("party")
	ErrLoanNotFound    = wrapNotFound("loan")
	ErrAdvanceNotFound = wrapNotFound("advance")
	ErrAmadNotFound    = wrapNotFound("amad")

	// Amount and limit errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrExceedsOutstanding = errors.New("repayment exceeds outstanding balance")
	ErrExceedsLimit       = errors.New("amount exceeds available limit")

	// Ledger errors
	ErrConcurrentModification = errors.New("concurrent modification of party ledger")
	ErrLedgerCorruption       = errors.New("ledger corruption detected")
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// Lifecycle errors
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyPosted     = errors.New("interest already posted for period")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

type notFoundError struct {
	what string
}

func (e *notFoundError) Error() string { return e.what + " not found" }

func (e *notFoundError) Unwrap() error { return ErrNotFound }

func wrapNotFound(what string) error {
	return &notFoundError{what: what}
}

package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultChartConcurrency bounds how many party ledgers an interest chart replays at once.
	DefaultChartConcurrency = 8

	// tailLength is how many recent entries an append reads to verify the ledger tail.
	tailLength = 2
)

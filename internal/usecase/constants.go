package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// CategoryTreeTTL bounds how long a cached category tree is trusted.
	CategoryTreeTTL = 5 * time.Minute

	categoryTreeCacheKey = "categories:tree"

	// DefaultTimezone is the business day timezone: a fixed UTC-4 offset with
	// no DST table. POSIX zone names invert the sign, so GMT+4 is UTC-4.
	DefaultTimezone = "Etc/GMT+4"
)

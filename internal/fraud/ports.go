// Package fraud applies heuristic rules against issuance history to flag
// suspicious certificate patterns. Heuristics flag, they never reject.
package fraud

import "context"

// HistoryStore owns the issuance history consulted by the detector. Both
// operations must be atomic so two concurrent issuances for the same
// recipient and program cannot both observe "not yet seen" - the in-memory
// implementation locks, the Redis implementation relies on SETNX and INCR.
type HistoryStore interface {
	// RecordIssuance performs a check-and-insert for a recipient+program key.
	// It reports whether the key had already been recorded and always records
	// the new occurrence.
	RecordIssuance(ctx context.Context, key string) (seen bool, err error)

	// IncrementPerfectScores bumps the counter of perfect-score certificates
	// and returns its new value.
	IncrementPerfectScores(ctx context.Context) (int64, error)
}

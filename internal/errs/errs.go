// Package errs defines the error categories the orchestrator reports per item.
package errs

import "errors"

var (
	// ErrConfiguration marks missing or inconsistent client/account setup
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstream marks spend-data provider failures, including malformed numbers
	ErrUpstream = errors.New("upstream error")
	// ErrPersistence marks review-store read/write failures
	ErrPersistence = errors.New("persistence error")
)

// Category returns the taxonomy name for a classified error, or "unknown".
func Category(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}

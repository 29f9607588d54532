// Package domain defines domain-level errors for the coins feature.
package domain

import "errors"

// Domain errors for coin lookup operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrCoinNotFound indicates that no snapshot matched the given identifier or symbol.
	ErrCoinNotFound = errors.New("coin not found")

	// ErrStoreUnavailable indicates that no snapshot store is configured.
	// Store-only reads (lookup, trending) cannot be served in this mode.
	ErrStoreUnavailable = errors.New("snapshot store not configured")
)

// Package db defines the storage transaction boundary shared by every
// repository implementation.
package db

import "context"

// TxFunc runs inside a transaction. Repositories called with ctx join it.
type TxFunc func(ctx context.Context) error

type Transactor interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	// The error returned by fn is passed through unchanged.
	WithinTransaction(ctx context.Context, fn TxFunc) error
}

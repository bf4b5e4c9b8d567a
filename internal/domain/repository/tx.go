package repository

import "context"

// TransactionManager runs a function inside a single storage transaction.
// Repository calls made with the context passed to fn join that transaction,
// which is how ingestion keeps assessment insert, history append, and alert
// insert atomic per assessment.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

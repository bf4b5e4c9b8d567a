package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/cscx/riskwatch/internal/domain/repository"
)

type txContextKey struct{}

// GormTransactionManager runs functions inside a single gorm transaction,
// carrying the transactional handle on the context so repository calls made
// within fn join it transparently.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a TransactionManager over db.
func NewGormTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTx starts a transaction and invokes fn with a context that routes
// repository calls through it. fn returning an error rolls everything back.
func (m *GormTransactionManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transactional handle when ctx carries one, so
// repositories participate in the caller's transaction, and falls back to the
// base handle otherwise.
func dbFromContext(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}

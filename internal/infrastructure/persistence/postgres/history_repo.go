package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	apperrors "github.com/cscx/riskwatch/pkg/errors"
)

// riskHistoryDBM is the database model for the risk_history table. The
// composite index serves the baseline lookup: most recent entry before a
// cutoff for one customer.
type riskHistoryDBM struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	CustomerID string    `gorm:"size:128;not null;index:idx_history_customer_time,priority:1"`
	DealID     *string   `gorm:"size:128"`
	Score      int       `gorm:"not null"`
	Level      string    `gorm:"size:16;not null"`
	RecordedAt time.Time `gorm:"not null;index:idx_history_customer_time,priority:2"`
}

func (riskHistoryDBM) TableName() string {
	return "risk_history"
}

func (dbm *riskHistoryDBM) toDomain() *models.RiskHistoryEntry {
	return &models.RiskHistoryEntry{
		ID:         dbm.ID,
		CustomerID: dbm.CustomerID,
		DealID:     dbm.DealID,
		Score:      dbm.Score,
		Level:      models.RiskLevel(dbm.Level),
		RecordedAt: dbm.RecordedAt,
	}
}

// GormHistoryRepository is the GORM implementation of HistoryRepository.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a GormHistoryRepository.
func NewGormHistoryRepository(db *gorm.DB) repository.HistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Append(ctx context.Context, entry *models.RiskHistoryEntry) error {
	dbm := &riskHistoryDBM{
		CustomerID: entry.CustomerID,
		DealID:     entry.DealID,
		Score:      entry.Score,
		Level:      string(entry.Level),
		RecordedAt: entry.RecordedAt,
	}
	if err := dbFromContext(ctx, r.db).Create(dbm).Error; err != nil {
		return apperrors.ErrStorage("append history entry", err)
	}
	entry.ID = dbm.ID
	return nil
}

func (r *GormHistoryRepository) LatestBefore(ctx context.Context, customerID string, cutoff time.Time) (*models.RiskHistoryEntry, error) {
	var dbm riskHistoryDBM
	err := dbFromContext(ctx, r.db).
		Where("customer_id = ? AND recorded_at < ?", customerID, cutoff).
		Order("recorded_at DESC, id DESC").
		First(&dbm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrStorage("load baseline history entry", err)
	}
	return dbm.toDomain(), nil
}

func (r *GormHistoryRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.RiskHistoryEntry, error) {
	var dbms []riskHistoryDBM
	err := dbFromContext(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("recorded_at DESC, id DESC").
		Find(&dbms).Error
	if err != nil {
		return nil, apperrors.ErrStorage("list history entries", err)
	}
	entries := make([]*models.RiskHistoryEntry, 0, len(dbms))
	for i := range dbms {
		entries = append(entries, dbms[i].toDomain())
	}
	return entries, nil
}

func (r *GormHistoryRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).
		Model(&riskHistoryDBM{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.ErrStorage("count history entries", err)
	}
	return count, nil
}

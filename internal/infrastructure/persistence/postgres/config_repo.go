package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	apperrors "github.com/cscx/riskwatch/pkg/errors"
)

// configEntryDBM is the database model for the engine_config table.
type configEntryDBM struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     []byte    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (configEntryDBM) TableName() string {
	return "engine_config"
}

// GormConfigRepository is the GORM implementation of ConfigRepository. Reads
// always hit the database so evaluations observe the latest committed value.
type GormConfigRepository struct {
	db *gorm.DB
}

// NewGormConfigRepository creates a GormConfigRepository.
func NewGormConfigRepository(db *gorm.DB) repository.ConfigRepository {
	return &GormConfigRepository{db: db}
}

func (r *GormConfigRepository) Get(ctx context.Context, key string) (*models.ConfigEntry, error) {
	var dbm configEntryDBM
	err := dbFromContext(ctx, r.db).Where("key = ?", key).First(&dbm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrStorage("load config entry", err)
	}
	return &models.ConfigEntry{Key: dbm.Key, Value: dbm.Value, UpdatedAt: dbm.UpdatedAt}, nil
}

func (r *GormConfigRepository) Set(ctx context.Context, key string, value []byte) error {
	dbm := &configEntryDBM{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := dbFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(dbm).Error
	if err != nil {
		return apperrors.ErrStorage("upsert config entry", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	apperrors "github.com/cscx/riskwatch/pkg/errors"
)

// riskAlertDBM is the database model for the risk_alerts table. Rows are
// insert-only except for the acknowledgement columns.
type riskAlertDBM struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"`
	PublicID       string     `gorm:"size:36;uniqueIndex;not null"`
	CustomerID     string     `gorm:"size:128;not null;index"`
	CustomerName   string     `gorm:"size:256;not null"`
	Type           string     `gorm:"size:32;not null"`
	PreviousLevel  *string    `gorm:"size:16"`
	CurrentLevel   string     `gorm:"size:16;not null"`
	PreviousScore  *int
	CurrentScore   int        `gorm:"not null"`
	TriggeredAt    time.Time  `gorm:"not null;index"`
	AcknowledgedAt *time.Time
	AcknowledgedBy *string    `gorm:"size:128"`
}

func (riskAlertDBM) TableName() string {
	return "risk_alerts"
}

func (dbm *riskAlertDBM) toDomain() (*models.RiskAlert, error) {
	id, err := uuid.Parse(dbm.PublicID)
	if err != nil {
		return nil, apperrors.ErrStorage("decode alert id", err)
	}
	var previousLevel *models.RiskLevel
	if dbm.PreviousLevel != nil {
		level := models.RiskLevel(*dbm.PreviousLevel)
		previousLevel = &level
	}
	return &models.RiskAlert{
		ID:             id,
		CustomerID:     dbm.CustomerID,
		CustomerName:   dbm.CustomerName,
		Type:           models.AlertType(dbm.Type),
		PreviousLevel:  previousLevel,
		CurrentLevel:   models.RiskLevel(dbm.CurrentLevel),
		PreviousScore:  dbm.PreviousScore,
		CurrentScore:   dbm.CurrentScore,
		TriggeredAt:    dbm.TriggeredAt,
		AcknowledgedAt: dbm.AcknowledgedAt,
		AcknowledgedBy: dbm.AcknowledgedBy,
	}, nil
}

func alertFromDomain(a *models.RiskAlert) *riskAlertDBM {
	var previousLevel *string
	if a.PreviousLevel != nil {
		level := string(*a.PreviousLevel)
		previousLevel = &level
	}
	return &riskAlertDBM{
		PublicID:       a.ID.String(),
		CustomerID:     a.CustomerID,
		CustomerName:   a.CustomerName,
		Type:           string(a.Type),
		PreviousLevel:  previousLevel,
		CurrentLevel:   string(a.CurrentLevel),
		PreviousScore:  a.PreviousScore,
		CurrentScore:   a.CurrentScore,
		TriggeredAt:    a.TriggeredAt,
		AcknowledgedAt: a.AcknowledgedAt,
		AcknowledgedBy: a.AcknowledgedBy,
	}
}

// GormAlertRepository is the GORM implementation of AlertRepository.
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a GormAlertRepository.
func NewGormAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &GormAlertRepository{db: db}
}

func (r *GormAlertRepository) Create(ctx context.Context, alert *models.RiskAlert) error {
	if err := dbFromContext(ctx, r.db).Create(alertFromDomain(alert)).Error; err != nil {
		return apperrors.ErrStorage("insert alert", err)
	}
	return nil
}

func (r *GormAlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RiskAlert, error) {
	var dbm riskAlertDBM
	err := dbFromContext(ctx, r.db).Where("public_id = ?", id.String()).First(&dbm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrStorage("load alert", err)
	}
	return dbm.toDomain()
}

func (r *GormAlertRepository) UpdateAcknowledgement(ctx context.Context, alert *models.RiskAlert) error {
	err := dbFromContext(ctx, r.db).
		Model(&riskAlertDBM{}).
		Where("public_id = ?", alert.ID.String()).
		Updates(map[string]interface{}{
			"acknowledged_at": alert.AcknowledgedAt,
			"acknowledged_by": alert.AcknowledgedBy,
		}).Error
	if err != nil {
		return apperrors.ErrStorage("update alert acknowledgement", err)
	}
	return nil
}

func (r *GormAlertRepository) List(ctx context.Context, filter repository.AlertFilter) ([]*models.RiskAlert, error) {
	query := dbFromContext(ctx, r.db).Model(&riskAlertDBM{})
	if filter.Acknowledged != nil {
		if *filter.Acknowledged {
			query = query.Where("acknowledged_at IS NOT NULL")
		} else {
			query = query.Where("acknowledged_at IS NULL")
		}
	}
	var dbms []riskAlertDBM
	if err := query.Order("triggered_at DESC, id DESC").Find(&dbms).Error; err != nil {
		return nil, apperrors.ErrStorage("list alerts", err)
	}
	return alertsToDomain(dbms)
}

func (r *GormAlertRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.RiskAlert, error) {
	var dbms []riskAlertDBM
	err := dbFromContext(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("triggered_at DESC, id DESC").
		Find(&dbms).Error
	if err != nil {
		return nil, apperrors.ErrStorage("list customer alerts", err)
	}
	return alertsToDomain(dbms)
}

func alertsToDomain(dbms []riskAlertDBM) ([]*models.RiskAlert, error) {
	out := make([]*models.RiskAlert, 0, len(dbms))
	for i := range dbms {
		a, err := dbms[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

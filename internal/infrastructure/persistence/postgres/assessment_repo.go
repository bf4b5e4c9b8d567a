package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	apperrors "github.com/cscx/riskwatch/pkg/errors"
)

// riskAssessmentDBM is the database model for the risk_assessments table.
// The bigint primary key orders rows by insertion and breaks assessed_at
// ties; PublicID is the identifier exposed through the API.
type riskAssessmentDBM struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	PublicID      string     `gorm:"size:36;uniqueIndex;not null"`
	CustomerID    string     `gorm:"size:128;not null;index:idx_assessments_customer_time,priority:1"`
	DealID        *string    `gorm:"size:128"`
	DealType      *string    `gorm:"size:64"`
	DealValue     *float64
	DealCloseDate *time.Time
	Score         int        `gorm:"not null"`
	Level         string     `gorm:"size:16;not null"`
	Confidence    *float64
	Findings      []byte     `gorm:"type:jsonb"`
	Mitigations   []byte     `gorm:"type:jsonb"`
	AssessedAt    time.Time  `gorm:"not null;index:idx_assessments_customer_time,priority:2"`
	CreatedAt     time.Time
}

func (riskAssessmentDBM) TableName() string {
	return "risk_assessments"
}

func (dbm *riskAssessmentDBM) toDomain() (*models.RiskAssessment, error) {
	id, err := uuid.Parse(dbm.PublicID)
	if err != nil {
		return nil, apperrors.ErrStorage("decode assessment id", err)
	}
	var findings []models.RiskFinding
	if len(dbm.Findings) > 0 {
		if err := json.Unmarshal(dbm.Findings, &findings); err != nil {
			return nil, apperrors.ErrStorage("decode assessment findings", err)
		}
	}
	return &models.RiskAssessment{
		ID:            id,
		CustomerID:    dbm.CustomerID,
		DealID:        dbm.DealID,
		DealType:      dbm.DealType,
		DealValue:     dbm.DealValue,
		DealCloseDate: dbm.DealCloseDate,
		Score:         dbm.Score,
		Level:         models.RiskLevel(dbm.Level),
		Confidence:    dbm.Confidence,
		Findings:      findings,
		Mitigations:   json.RawMessage(dbm.Mitigations),
		AssessedAt:    dbm.AssessedAt,
		CreatedAt:     dbm.CreatedAt,
	}, nil
}

func assessmentFromDomain(a *models.RiskAssessment) (*riskAssessmentDBM, error) {
	var findings []byte
	if len(a.Findings) > 0 {
		encoded, err := json.Marshal(a.Findings)
		if err != nil {
			return nil, apperrors.ErrStorage("encode assessment findings", err)
		}
		findings = encoded
	}
	return &riskAssessmentDBM{
		PublicID:      a.ID.String(),
		CustomerID:    a.CustomerID,
		DealID:        a.DealID,
		DealType:      a.DealType,
		DealValue:     a.DealValue,
		DealCloseDate: a.DealCloseDate,
		Score:         a.Score,
		Level:         string(a.Level),
		Confidence:    a.Confidence,
		Findings:      findings,
		Mitigations:   []byte(a.Mitigations),
		AssessedAt:    a.AssessedAt,
		CreatedAt:     a.CreatedAt,
	}, nil
}

// GormAssessmentRepository is the GORM implementation of AssessmentRepository.
type GormAssessmentRepository struct {
	db *gorm.DB
}

// NewGormAssessmentRepository creates a GormAssessmentRepository.
func NewGormAssessmentRepository(db *gorm.DB) repository.AssessmentRepository {
	return &GormAssessmentRepository{db: db}
}

func (r *GormAssessmentRepository) Create(ctx context.Context, assessment *models.RiskAssessment) error {
	dbm, err := assessmentFromDomain(assessment)
	if err != nil {
		return err
	}
	if dbm.CreatedAt.IsZero() {
		dbm.CreatedAt = time.Now().UTC()
	}
	if err := dbFromContext(ctx, r.db).Create(dbm).Error; err != nil {
		return apperrors.ErrStorage("insert assessment", err)
	}
	assessment.CreatedAt = dbm.CreatedAt
	return nil
}

func (r *GormAssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RiskAssessment, error) {
	var dbm riskAssessmentDBM
	err := dbFromContext(ctx, r.db).Where("public_id = ?", id.String()).First(&dbm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrStorage("load assessment", err)
	}
	return dbm.toDomain()
}

func (r *GormAssessmentRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.RiskAssessment, error) {
	var dbms []riskAssessmentDBM
	err := dbFromContext(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("assessed_at DESC, id DESC").
		Find(&dbms).Error
	if err != nil {
		return nil, apperrors.ErrStorage("list assessments", err)
	}
	return toDomainSlice(dbms)
}

func (r *GormAssessmentRepository) LatestByCustomer(ctx context.Context, customerID string) (*models.RiskAssessment, error) {
	var dbm riskAssessmentDBM
	err := dbFromContext(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("assessed_at DESC, id DESC").
		First(&dbm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrStorage("load latest assessment", err)
	}
	return dbm.toDomain()
}

func (r *GormAssessmentRepository) LatestPerCustomer(ctx context.Context) ([]*models.RiskAssessment, error) {
	// Window function keeps this a single round trip. Ties on assessed_at go
	// to the most recently inserted row.
	var dbms []riskAssessmentDBM
	err := dbFromContext(ctx, r.db).Raw(`
		SELECT * FROM (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY customer_id
				ORDER BY assessed_at DESC, id DESC
			) AS row_rank
			FROM risk_assessments
		) ranked
		WHERE row_rank = 1`).Scan(&dbms).Error
	if err != nil {
		return nil, apperrors.ErrStorage("load latest assessments per customer", err)
	}
	return toDomainSlice(dbms)
}

func toDomainSlice(dbms []riskAssessmentDBM) ([]*models.RiskAssessment, error) {
	out := make([]*models.RiskAssessment, 0, len(dbms))
	for i := range dbms {
		a, err := dbms[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

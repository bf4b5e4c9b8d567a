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

// customerDBM is the database model for the customers table.
type customerDBM struct {
	ID        string    `gorm:"primaryKey;size:128"`
	Name      string    `gorm:"size:256;not null"`
	Revenue   float64   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (customerDBM) TableName() string {
	return "customers"
}

func (dbm *customerDBM) toDomain() *models.Customer {
	return &models.Customer{
		ID:        dbm.ID,
		Name:      dbm.Name,
		Revenue:   dbm.Revenue,
		CreatedAt: dbm.CreatedAt,
		UpdatedAt: dbm.UpdatedAt,
	}
}

// GormCustomerRepository is the GORM implementation of CustomerRepository.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a GormCustomerRepository.
func NewGormCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Upsert(ctx context.Context, customer *models.Customer) error {
	dbm := &customerDBM{
		ID:        customer.ID,
		Name:      customer.Name,
		Revenue:   customer.Revenue,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
	err := dbFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "revenue", "updated_at"}),
	}).Create(dbm).Error
	if err != nil {
		return apperrors.ErrStorage("upsert customer", err)
	}
	return nil
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var dbm customerDBM
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&dbm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrStorage("load customer", err)
	}
	return dbm.toDomain(), nil
}

func (r *GormCustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	var dbms []customerDBM
	if err := dbFromContext(ctx, r.db).Order("id").Find(&dbms).Error; err != nil {
		return nil, apperrors.ErrStorage("list customers", err)
	}
	customers := make([]*models.Customer, 0, len(dbms))
	for i := range dbms {
		customers = append(customers, dbms[i].toDomain())
	}
	return customers, nil
}

// Delete removes the customer together with its assessments and history
// entries. Alerts are deliberately left in place; they carry the customer
// name they were raised with.
func (r *GormCustomerRepository) Delete(ctx context.Context, id string) error {
	err := dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&riskAssessmentDBM{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&riskHistoryDBM{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&customerDBM{}).Error
	})
	if err != nil {
		return apperrors.ErrStorage("delete customer", err)
	}
	return nil
}

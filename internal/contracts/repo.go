package contracts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

// Repository handles maintenance contract persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contracts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new maintenance contract.
func (r *Repository) Create(ctx context.Context, contract *models.MaintenanceContract) error {
	if contract == nil {
		return fmt.Errorf("contract is required")
	}
	return r.db.WithContext(ctx).Create(contract).Error
}

// FindByID loads a contract by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceContract, error) {
	var contract models.MaintenanceContract
	if err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListByCustomer returns the customer's contracts ordered by number and
// renewal index.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.MaintenanceContract, error) {
	var out []models.MaintenanceContract
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("contract_no ASC, idx ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// NextIndex returns the renewal index to use for the given contract number.
func (r *Repository) NextIndex(ctx context.Context, contractNo int64) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.MaintenanceContract{}).
		Select("MAX(idx)").
		Where("contract_no = ?", contractNo).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// Delete removes a contract.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MaintenanceContract{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

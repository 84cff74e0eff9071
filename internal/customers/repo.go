package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/enums"
	"github.com/webshopkit/webshop-backend/pkg/pagination"
)

// Repository exposes customer persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CustomerRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a customer together with its address and roles.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	if customer == nil {
		return fmt.Errorf("customer is required")
	}
	return r.db.WithContext(ctx).Create(customer).Error
}

// FindByID loads a customer with address and roles.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("Address").
		Preload("Roles").
		First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByEmail retrieves the customer matching the provided email,
// case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("Address").
		Preload("Roles").
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns a cursor page of customers ordered by creation time, newest
// first. It fetches limit+1 rows so the caller can detect the next page.
func (r *Repository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Customer, error) {
	q := r.db.WithContext(ctx).
		Preload("Roles").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var out []models.Customer
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByLastNamePrefix returns customers whose last name starts with the
// given prefix, for staff lookup screens.
func (r *Repository) FindByLastNamePrefix(ctx context.Context, prefix string) ([]models.Customer, error) {
	var out []models.Customer
	err := r.db.WithContext(ctx).
		Where("last_name LIKE ?", escapeLike(prefix)+"%").
		Order("last_name ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindWithoutOrders returns customers holding only the customer role that
// have never placed an order.
func (r *Repository) FindWithoutOrders(ctx context.Context) ([]models.Customer, error) {
	staff := r.db.
		Model(&models.CustomerRole{}).
		Select("customer_id").
		Where("role <> ?", enums.RoleCustomer)
	ordered := r.db.
		Model(&models.Order{}).
		Select("DISTINCT customer_id")

	var out []models.Customer
	err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", ordered).
		Where("id NOT IN (?)", staff).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountOrders returns how many orders the customer has placed.
func (r *Repository) CountOrders(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

// UpdateVersioned applies the column updates only if the row still carries
// expectedVersion, bumping version by one in the same statement. It returns
// the number of rows touched: zero means the guard fired and the caller must
// re-read to find out whether the row changed underneath or is gone.
func (r *Repository) UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int64, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, fmt.Errorf("updates are required")
	}

	payload := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		payload[k] = v
	}
	payload["version"] = expectedVersion + 1

	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(payload)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Delete removes the customer row. Dependent rows must already be gone;
// callers run this inside the cascade transaction. Zero rows affected means
// a racing delete got there first, which callers treat as done.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Customer{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteDependents removes everything owned by the customer except orders:
// roles, address, cart items, maintenance contracts and the uploaded file.
func (r *Repository) DeleteDependents(ctx context.Context, id uuid.UUID) error {
	q := r.db.WithContext(ctx)
	if err := q.Where("customer_id = ?", id).Delete(&models.CustomerRole{}).Error; err != nil {
		return fmt.Errorf("delete roles: %w", err)
	}
	if err := q.Where("customer_id = ?", id).Delete(&models.Address{}).Error; err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if err := q.Where("customer_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	if err := q.Where("customer_id = ?", id).Delete(&models.MaintenanceContract{}).Error; err != nil {
		return fmt.Errorf("delete maintenance contracts: %w", err)
	}
	if err := q.Where("customer_id = ?", id).Delete(&models.CustomerFile{}).Error; err != nil {
		return fmt.Errorf("delete uploaded file: %w", err)
	}
	return nil
}

// SaveFile stores the customer's uploaded file, replacing an earlier upload.
func (r *Repository) SaveFile(ctx context.Context, file *models.CustomerFile) error {
	if file == nil {
		return fmt.Errorf("file is required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"filename", "content_type", "bytes", "updated_at"}),
		}).
		Create(file).Error
}

// FindFile loads the customer's uploaded file.
func (r *Repository) FindFile(ctx context.Context, customerID uuid.UUID) (*models.CustomerFile, error) {
	var file models.CustomerFile
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

package carts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart
// service and the expiry sweep.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Upsert(ctx context.Context, item *models.CartItem, at time.Time) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error)
	RemoveItem(ctx context.Context, customerID, articleID uuid.UUID) (int64, error)
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error
	DeleteForStaleOwners(ctx context.Context, cutoff time.Time) (int64, error)
}

// Repository handles cart item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Upsert inserts the cart item or, when the customer already has the article
// in their cart, overwrites the quantity. Either way updated_at moves to at,
// which is what keeps the whole cart out of the expiry sweep.
func (r *Repository) Upsert(ctx context.Context, item *models.CartItem, at time.Time) error {
	if item == nil {
		return fmt.Errorf("cart item is required")
	}
	item.UpdatedAt = at
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "article_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   item.Quantity,
				"updated_at": at,
			}),
		}).
		Create(item).Error
}

// ListByCustomer returns the customer's cart with articles attached, oldest
// item first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem drops a single article from the customer's cart and reports how
// many rows went away.
func (r *Repository) RemoveItem(ctx context.Context, customerID, articleID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND article_id = ?", customerID, articleID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteByCustomer empties the customer's cart, e.g. after checkout.
func (r *Repository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.CartItem{}).Error
}

// DeleteForStaleOwners removes the complete carts of every customer whose
// newest cart activity lies before cutoff. Owners with any item touched at or
// after cutoff keep all of their items, including old ones. A single bulk
// delete keeps the sweep one round trip.
func (r *Repository) DeleteForStaleOwners(ctx context.Context, cutoff time.Time) (int64, error) {
	stale := r.db.
		Model(&models.CartItem{}).
		Select("customer_id").
		Group("customer_id").
		Having("MAX(updated_at) < ?", cutoff)

	res := r.db.WithContext(ctx).
		Where("customer_id IN (?)", stale).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

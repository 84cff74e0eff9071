package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
)

// OrderRepository defines the persistence surface required by the orders
// service.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	AccrueRevenue(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) error
	CreateDelivery(ctx context.Context, delivery *models.Delivery) error
	FindDeliveryByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error)
	FindDeliveriesForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Delivery, error)
	SearchDeliveries(ctx context.Context, numberPrefix string) ([]models.Delivery, error)
}

// Repository handles order and delivery persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts an order together with its line items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with line items and deliveries.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Deliveries").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AccrueRevenue adds the order total to the customer's lifetime revenue. The
// version column stays untouched: revenue accrual is not a client edit.
func (r *Repository) AccrueRevenue(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		UpdateColumn("revenue", gorm.Expr("revenue + ?", amount)).Error
}

// CreateDelivery inserts a delivery and its order associations.
func (r *Repository) CreateDelivery(ctx context.Context, delivery *models.Delivery) error {
	if delivery == nil {
		return fmt.Errorf("delivery is required")
	}
	return r.db.WithContext(ctx).Create(delivery).Error
}

// FindDeliveryByID loads a delivery with its orders.
func (r *Repository) FindDeliveryByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Preload("Orders").
		First(&delivery, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// FindDeliveriesForOrder returns every delivery the order is part of.
func (r *Repository) FindDeliveriesForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Delivery, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Deliveries").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return order.Deliveries, nil
}

// SearchDeliveries returns deliveries whose delivery number starts with the
// given prefix, newest first.
func (r *Repository) SearchDeliveries(ctx context.Context, numberPrefix string) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Where("delivery_number LIKE ?", escapeLike(numberPrefix)+"%").
		Order("created_at DESC").
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

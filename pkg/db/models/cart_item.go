package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one pending (article, quantity) selection. UpdatedAt drives the
// expiry sweep: a customer's whole cart survives as long as any item was
// touched inside the retention window.
type CartItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index:idx_cart_items_customer;uniqueIndex:uq_cart_items_customer_article"`
	ArticleID  uuid.UUID `gorm:"column:article_id;type:uuid;not null;uniqueIndex:uq_cart_items_customer_article"`
	Quantity   int       `gorm:"column:quantity;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

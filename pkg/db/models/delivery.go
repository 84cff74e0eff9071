package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery tracks one shipment; a shipment can bundle several orders and an
// order can be split over several shipments.
type Delivery struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DeliveryNumber string    `gorm:"column:delivery_number;type:text;not null;uniqueIndex"`
	Carrier        string    `gorm:"column:carrier;not null"`

	Orders []Order `gorm:"many2many:order_deliveries"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is the customer's single shipping address, removed with its owner.
type Address struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	Street      string    `gorm:"column:street;not null"`
	HouseNumber string    `gorm:"column:house_number;not null"`
	Zip         string    `gorm:"column:zip;not null"`
	City        string    `gorm:"column:city;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

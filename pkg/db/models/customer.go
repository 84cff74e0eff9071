package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/webshopkit/webshop-backend/pkg/enums"
)

// Customer is the versioned aggregate root. Individual and business customers
// share one table; Kind discriminates, and the individual-only columns stay
// NULL for business customers.
type Customer struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind         enums.CustomerKind `gorm:"column:kind;type:text;not null"`
	LastName     string             `gorm:"column:last_name;not null"`
	FirstName    *string            `gorm:"column:first_name"`
	Email        string             `gorm:"column:email;type:text;not null;uniqueIndex"`
	Category     int                `gorm:"column:category;not null;default:0"`
	Discount     decimal.Decimal    `gorm:"column:discount;type:numeric;not null;default:0"`
	Revenue      decimal.Decimal    `gorm:"column:revenue;type:numeric;not null;default:0"`
	Since        *time.Time         `gorm:"column:since"`
	Newsletter   bool               `gorm:"column:newsletter;not null;default:false"`
	TermsAgreed  bool               `gorm:"column:terms_agreed;not null;default:false"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Remarks      *string            `gorm:"column:remarks"`

	// Individual-only attributes.
	Gender        *enums.Gender        `gorm:"column:gender;type:text"`
	MaritalStatus *enums.MaritalStatus `gorm:"column:marital_status;type:text"`
	Hobbies       pq.StringArray       `gorm:"column:hobbies;type:text[]"`

	// Version backs the optimistic compare-and-swap; it is only ever
	// advanced through Repository.UpdateVersioned.
	Version int64 `gorm:"column:version;not null;default:0"`

	Address Address        `gorm:"foreignKey:CustomerID"`
	Roles   []CustomerRole `gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CustomerRole grants one role to one customer.
type CustomerRole struct {
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;primaryKey"`
	Role       enums.Role `gorm:"column:role;type:text;primaryKey"`
}

// TableName pins the join table name.
func (CustomerRole) TableName() string { return "customer_roles" }

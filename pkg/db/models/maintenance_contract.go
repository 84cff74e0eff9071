package models

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceContract is a service agreement owned by a customer. ContractNo
// and Index are unique together; Index numbers renewals of the same contract.
type MaintenanceContract struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index:idx_maintenance_contracts_customer"`
	ContractNo int64     `gorm:"column:contract_no;not null;uniqueIndex:uq_contract_no_index"`
	Index      int       `gorm:"column:idx;not null;uniqueIndex:uq_contract_no_index"`
	Content    string    `gorm:"column:content;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

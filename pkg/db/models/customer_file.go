package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerFile is the single file a customer can attach to their account,
// typically an avatar image. The payload is stored inline; re-uploading
// replaces it.
type CustomerFile struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	Filename    string    `gorm:"column:filename;not null"`
	ContentType string    `gorm:"column:content_type;not null"`
	Bytes       []byte    `gorm:"column:bytes;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName avoids the reserved word "file".
func (CustomerFile) TableName() string { return "customer_files" }

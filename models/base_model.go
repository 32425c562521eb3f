package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel is embedded by every persistent model. Soft delete plus audit
// columns; CreatedBy/UpdatedBy/DeletedBy are filled by the services that own
// the mutation.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `gorm:"index" json:"-"`
	UpdatedBy *uint          `json:"-"`
	DeletedBy *uint          `json:"-"`
}

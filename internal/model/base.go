package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel handles the primary key and standard Audit Trails.
// IDs are plain auto-increment integers: product scan codes embed the
// identifier as a decimal suffix (SPC000000042 -> product 42), so the key
// must round-trip through a base-10 string.
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"` // Soft Delete support
}

package model

type Product struct {
	BaseModel
	SKU     string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name    string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Barcode *string `gorm:"type:varchar(100);uniqueIndex" json:"barcode,omitempty"` // external barcode index for codes without the SPC prefix
	Stock   int     `gorm:"default:0" json:"stock"`
	Unit    string  `gorm:"type:varchar(20)" json:"unit"`
	Price   int64   `gorm:"default:0" json:"price"`

	// Relasi
	ScanLogs []ScanLog `json:"scan_logs,omitempty"`
}

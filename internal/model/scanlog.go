package model

type ScanAction string

const (
	ActionScanIn  ScanAction = "scan_in"
	ActionScanOut ScanAction = "scan_out"
)

// Delta returns the signed per-unit stock effect of the action.
func (a ScanAction) Delta() int {
	if a == ActionScanOut {
		return -1
	}
	return 1
}

// ScanLog adalah audit trail untuk setiap mutasi stok via scanner.
// Previous/New quantity disimpan sebagai snapshot supaya log tetap konsisten
// walaupun stok berubah lagi setelahnya.
type ScanLog struct {
	BaseModel
	ProductID        uint       `gorm:"not null;index" json:"product_id" validate:"required"`
	Product          Product    `json:"product" validate:"-"` // Relasi - skip validation
	Action           ScanAction `gorm:"type:varchar(10);not null" json:"action" validate:"required,oneof=scan_in scan_out"`
	Quantity         int        `gorm:"not null" json:"quantity" validate:"required,gt=0"` // Qty harus > 0
	PreviousQuantity int        `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int        `gorm:"not null" json:"new_quantity"`
	Change           int        `gorm:"not null" json:"change"` // NewQuantity - PreviousQuantity, signed
	Barcode          string     `gorm:"type:varchar(100)" json:"barcode"`
	Reason           string     `json:"reason"`
	DeviceType       string     `gorm:"type:varchar(10)" json:"device_type"`
}

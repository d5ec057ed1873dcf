package model

// Wire types for POST /api/v1/inventory/scan, shared by the server handler
// and the scanner client.

// ScanRequest applies one signed stock mutation. Exactly one of Barcode or
// ProductID has to resolve to a product; the server tries ProductID first,
// then the barcode index, then the SKU.
type ScanRequest struct {
	Barcode    string     `json:"barcode,omitempty"`
	ProductID  uint       `json:"product_id,omitempty"`
	Action     ScanAction `json:"action" validate:"required,oneof=scan_in scan_out"`
	Quantity   int        `json:"quantity" validate:"required,gte=1"`
	Reason     string     `json:"reason,omitempty"`
	DeviceType string     `json:"device_type" validate:"required,oneof=desktop mobile"`
}

// ScanResult is the authoritative record of one applied mutation.
// Invariant: NewQuantity == PreviousQuantity + Change.
type ScanResult struct {
	ProductID        uint   `json:"product_id"`
	ProductName      string `json:"product_name"`
	ProductSKU       string `json:"product_sku"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	Change           int    `json:"change"`
}

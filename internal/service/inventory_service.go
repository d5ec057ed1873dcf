package service

import (
	"context"
	"errors"
	"fmt"

	"go-stockscan/internal/events"
	"go-stockscan/internal/model"
	"go-stockscan/internal/repository"
	"go-stockscan/internal/ws"
	"go-stockscan/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

// ValidationError wraps a request-level failure so the handler can map it to
// a 400 while keeping the field detail.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

type InventoryService interface {
	ApplyScan(req *model.ScanRequest) (*model.ScanResult, error)
	CreateProduct(req *model.Product) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetScanLogs(limit int) ([]model.ScanLog, error)
	GetScanLogByID(id uint) (*model.ScanLog, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	scanLogRepo repository.ScanLogRepository
	db          *gorm.DB
	wsHub       *ws.Hub
	publisher   *events.Publisher
	log         *zap.Logger
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	sRepo repository.ScanLogRepository,
	db *gorm.DB,
	hub *ws.Hub,
	publisher *events.Publisher,
	log *zap.Logger,
) InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &inventoryService{
		productRepo: pRepo,
		scanLogRepo: sRepo,
		db:          db,
		wsHub:       hub,
		publisher:   publisher,
		log:         log,
	}
}

// ApplyScan applies one signed stock mutation atomically. The product row is
// locked FOR UPDATE for the duration of the transaction, so the server
// serializes concurrent updates per product regardless of which surface they
// came from. The quantity chain (previous -> new) is read under the lock and
// is therefore always consistent.
func (s *inventoryService) ApplyScan(req *model.ScanRequest) (*model.ScanResult, error) {
	// 1. Validasi Input
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, &ValidationError{
			Detail: fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag),
		}
	}
	if req.ProductID == 0 && req.Barcode == "" {
		return nil, &ValidationError{Detail: "either product_id or barcode is required"}
	}

	var result *model.ScanResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// A. Cari & Lock Product (Pessimistic Locking)
		product, err := s.lockProduct(tx, req)
		if err != nil {
			return err
		}

		// B. Hitung Logic Stok
		previous := product.Stock
		newStock := previous
		if req.Action == model.ActionScanIn {
			newStock += req.Quantity
		} else {
			if previous < req.Quantity {
				return ErrInsufficientStock
			}
			newStock -= req.Quantity
		}

		// C. Update Stok Product
		if err := s.productRepo.UpdateStock(tx, product.ID, newStock); err != nil {
			return err
		}

		// D. Simpan Scan Log
		logEntry := &model.ScanLog{
			ProductID:        product.ID,
			Action:           req.Action,
			Quantity:         req.Quantity,
			PreviousQuantity: previous,
			NewQuantity:      newStock,
			Change:           newStock - previous,
			Barcode:          req.Barcode,
			Reason:           req.Reason,
			DeviceType:       req.DeviceType,
		}
		if err := s.scanLogRepo.CreateTx(tx, logEntry); err != nil {
			return err
		}

		result = &model.ScanResult{
			ProductID:        product.ID,
			ProductName:      product.Name,
			ProductSKU:       product.SKU,
			PreviousQuantity: previous,
			NewQuantity:      newStock,
			Change:           newStock - previous,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// E. Broadcast + event publish di luar critical path
	go s.announce(req, result)

	return result, nil
}

// lockProduct resolves the scan target with a FOR UPDATE lock: product_id
// first, then the barcode index, then SKU as a last resort.
func (s *inventoryService) lockProduct(tx *gorm.DB, req *model.ScanRequest) (*model.Product, error) {
	locked := tx.Set("gorm:query_option", "FOR UPDATE")

	var product model.Product
	if req.ProductID != 0 {
		if err := locked.First(&product, "id = ?", req.ProductID).Error; err != nil {
			return nil, ErrProductNotFound
		}
		return &product, nil
	}

	if err := locked.First(&product, "barcode = ?", req.Barcode).Error; err == nil {
		return &product, nil
	}
	if err := locked.First(&product, "sku = ?", req.Barcode).Error; err == nil {
		return &product, nil
	}
	return nil, ErrProductNotFound
}

func (s *inventoryService) announce(req *model.ScanRequest, result *model.ScanResult) {
	if s.wsHub != nil {
		s.wsHub.BroadcastStockUpdate(ws.StockUpdate{
			ProductID:        result.ProductID,
			ProductName:      result.ProductName,
			ProductSKU:       result.ProductSKU,
			Action:           string(req.Action),
			PreviousQuantity: result.PreviousQuantity,
			NewQuantity:      result.NewQuantity,
			Change:           result.Change,
			DeviceType:       req.DeviceType,
		})
	}

	if s.publisher.Enabled() {
		_ = s.publisher.PublishScan(context.Background(), events.ScanEvent{
			ProductID:        result.ProductID,
			ProductSKU:       result.ProductSKU,
			Action:           req.Action,
			Quantity:         req.Quantity,
			PreviousQuantity: result.PreviousQuantity,
			NewQuantity:      result.NewQuantity,
			Change:           result.Change,
			Reason:           req.Reason,
			DeviceType:       req.DeviceType,
		})
	}
}

func (s *inventoryService) CreateProduct(req *model.Product) error {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return &ValidationError{
			Detail: fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag),
		}
	}

	// 2. Cek Duplikasi SKU (Business Logic Validation)
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != 0 {
		return &ValidationError{Detail: "SKU already exists"}
	}

	return s.productRepo.Create(req)
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *inventoryService) GetScanLogs(limit int) ([]model.ScanLog, error) {
	return s.scanLogRepo.FindAll(limit)
}

func (s *inventoryService) GetScanLogByID(id uint) (*model.ScanLog, error) {
	return s.scanLogRepo.FindByID(id)
}

package repository

import (
	"time"

	"go-stockscan/internal/model"

	"gorm.io/gorm"
)

type ScanLogRepository interface {
	CreateTx(tx *gorm.DB, log *model.ScanLog) error
	FindAll(limit int) ([]model.ScanLog, error)
	FindByID(id uint) (*model.ScanLog, error)
	GetScanMovement(startDate, endDate time.Time) ([]ScanMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// ScanMovementData untuk chart data
type ScanMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	TotalScans     int64 `json:"total_scans"`
	LowStockCount  int64 `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
}

type scanLogRepo struct {
	db *gorm.DB
}

func NewScanLogRepo(db *gorm.DB) ScanLogRepository {
	return &scanLogRepo{db}
}

// CreateTx menerima *gorm.DB (tx) supaya log entry ikut transaksi mutasi stok.
func (r *scanLogRepo) CreateTx(tx *gorm.DB, log *model.ScanLog) error {
	return tx.Create(log).Error
}

func (r *scanLogRepo) FindAll(limit int) ([]model.ScanLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []model.ScanLog
	err := r.db.Preload("Product").Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *scanLogRepo) FindByID(id uint) (*model.ScanLog, error) {
	var log model.ScanLog
	err := r.db.Preload("Product").First(&log, "id = ?", id).Error
	return &log, err
}

func (r *scanLogRepo) GetScanMovement(startDate, endDate time.Time) ([]ScanMovementData, error) {
	var results []ScanMovementData

	// Aggregate scans per hari
	rows, err := r.db.Model(&model.ScanLog{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN action = 'scan_in' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN action = 'scan_out' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data ScanMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *scanLogRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.ScanLog{}).Count(&stats.TotalScans)

	// Low Stock Count (stock < 10)
	r.db.Model(&model.Product{}).Where("stock < ?", 10).Count(&stats.LowStockCount)

	// Total Valuation (SUM of stock * price)
	r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation)

	return &stats, nil
}

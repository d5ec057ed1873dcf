package service

import (
	"time"

	"go-stockscan/internal/repository"
)

type DashboardService interface {
	GetScanMovement(days int) ([]repository.ScanMovementData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	scanLogRepo repository.ScanLogRepository
}

func NewDashboardService(scanLogRepo repository.ScanLogRepository) DashboardService {
	return &dashboardService{scanLogRepo: scanLogRepo}
}

func (s *dashboardService) GetScanMovement(days int) ([]repository.ScanMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.scanLogRepo.GetScanMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.scanLogRepo.GetDashboardStats()
}

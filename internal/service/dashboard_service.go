package service

import (
	"time"

	"github.com/stagelight/boxoffice/internal/repository"
)

// DashboardService serves the admin landing page counters.
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// GetStats gathers the dashboard counters.
func (s *DashboardService) GetStats() (*repository.DashboardStats, error) {
	stats, err := s.dashboardRepo.Stats(time.Now())
	if err != nil {
		return nil, ErrDashboardFetchFailed
	}
	return stats, nil
}

package service

import (
	"context"

	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
)

// DashboardService serves the admin dashboard.
type DashboardService struct {
	repo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetSummary returns the dashboard counters.
func (s *DashboardService) GetSummary(ctx context.Context) (*model.DashboardSummary, error) {
	return s.repo.GetSummary(ctx)
}

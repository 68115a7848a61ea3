package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/markbook/internal/model"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummary retrieves the high-level counters for the dashboard.
func (r *DashboardRepository) GetSummary(ctx context.Context) (*model.DashboardSummary, error) {
	s := &model.DashboardSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM classes),
			(SELECT COUNT(*) FROM subjects),
			(SELECT COUNT(*) FROM exams),
			(SELECT COUNT(*) FROM mark_sheets)`,
	).Scan(&s.TotalStudents, &s.TotalClasses, &s.TotalSubjects, &s.TotalExams, &s.TotalMarkSheets)
	if err != nil {
		return nil, err
	}
	return s, nil
}

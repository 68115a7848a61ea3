package service

import (
	"context"
	"strings"

	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
	"github.com/stemsi/markbook/internal/response"
)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
	classRepo   *repository.ClassRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, classRepo *repository.ClassRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo, classRepo: classRepo}
}

// GetByID retrieves a student.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// List returns a page of students matching filter.
func (s *StudentService) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, *response.Pagination, error) {
	page, perPage, limit, offset := response.NormalizePage(filter.Page, filter.PerPage)

	students, total, err := s.studentRepo.ListPaginated(ctx, filter.ClassID, strings.TrimSpace(filter.Search), limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, response.NewPagination(page, perPage, total), nil
}

// Create inserts a student into an existing class.
func (s *StudentService) Create(ctx context.Context, st *model.Student) error {
	if err := ensureClass(ctx, s.classRepo, st.ClassID); err != nil {
		return err
	}
	return s.studentRepo.Create(ctx, st)
}

// Update modifies a student, possibly moving them to another class.
func (s *StudentService) Update(ctx context.Context, st *model.Student) error {
	if err := ensureClass(ctx, s.classRepo, st.ClassID); err != nil {
		return err
	}
	return s.studentRepo.Update(ctx, st)
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	return s.studentRepo.Delete(ctx, id)
}

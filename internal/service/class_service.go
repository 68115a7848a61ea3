package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
)

var ErrClassNotFound = errors.New("class not found")

// ClassService handles class CRUD.
type ClassService struct {
	classRepo *repository.ClassRepository
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo *repository.ClassRepository) *ClassService {
	return &ClassService{classRepo: classRepo}
}

func (s *ClassService) GetAll(ctx context.Context) ([]model.Class, error) {
	return s.classRepo.GetAll(ctx)
}

func (s *ClassService) Create(ctx context.Context, c *model.Class) error {
	normalizeClass(c)
	return s.classRepo.Create(ctx, c)
}

func (s *ClassService) Update(ctx context.Context, c *model.Class) error {
	normalizeClass(c)
	return s.classRepo.Update(ctx, c)
}

func (s *ClassService) Delete(ctx context.Context, id int) error {
	return s.classRepo.Delete(ctx, id)
}

func normalizeClass(c *model.Class) {
	c.Name = strings.TrimSpace(c.Name)
	c.Section = strings.ToUpper(strings.TrimSpace(c.Section))
}

// ensureClass maps a missing class onto ErrClassNotFound.
func ensureClass(ctx context.Context, repo *repository.ClassRepository, id int) error {
	if _, err := repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClassNotFound
		}
		return err
	}
	return nil
}

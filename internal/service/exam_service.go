package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
)

var ErrExamNotFound = errors.New("exam not found")

// ExamService handles exam business logic.
type ExamService struct {
	examRepo  *repository.ExamRepository
	classRepo *repository.ClassRepository
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo *repository.ExamRepository, classRepo *repository.ClassRepository, log zerolog.Logger) *ExamService {
	return &ExamService{
		examRepo:  examRepo,
		classRepo: classRepo,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// GetByID retrieves an exam by its UUID.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrExamNotFound
	}
	return exam, err
}

// List retrieves exams, optionally for one class.
func (s *ExamService) List(ctx context.Context, classID *int) ([]model.Exam, error) {
	return s.examRepo.List(ctx, classID)
}

// Create inserts a new exam for an existing class.
func (s *ExamService) Create(ctx context.Context, exam *model.Exam) error {
	if err := ensureClass(ctx, s.classRepo, exam.ClassID); err != nil {
		return err
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return err
	}
	s.log.Info().Str("exam_id", exam.ID.String()).Int("class_id", exam.ClassID).Msg("Exam created")
	return nil
}

// Update modifies an exam.
func (s *ExamService) Update(ctx context.Context, exam *model.Exam) error {
	if err := ensureClass(ctx, s.classRepo, exam.ClassID); err != nil {
		return err
	}
	return s.examRepo.Update(ctx, exam)
}

// Delete removes an exam and its mark sheets.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.examRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("exam_id", id.String()).Msg("Exam deleted")
	return nil
}

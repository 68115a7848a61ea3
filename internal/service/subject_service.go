package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
)

type SubjectService struct {
	subjectRepo *repository.SubjectRepository
	classRepo   *repository.ClassRepository
	log         zerolog.Logger
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, classRepo *repository.ClassRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		classRepo:   classRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

func (s *SubjectService) List(ctx context.Context, classID *int) ([]model.Subject, error) {
	return s.subjectRepo.List(ctx, classID)
}

func (s *SubjectService) Create(ctx context.Context, sub *model.Subject) error {
	if err := ensureClass(ctx, s.classRepo, sub.ClassID); err != nil {
		return err
	}
	return s.subjectRepo.Create(ctx, sub)
}

// Update changes a subject. Existing mark sheets keep the thresholds they
// were computed with.
func (s *SubjectService) Update(ctx context.Context, sub *model.Subject) error {
	if err := ensureClass(ctx, s.classRepo, sub.ClassID); err != nil {
		return err
	}
	if err := s.subjectRepo.Update(ctx, sub); err != nil {
		return err
	}
	s.log.Info().Int("subject_id", sub.ID).Int("max_marks", sub.MaxMarks).Int("passing_marks", sub.PassingMarks).Msg("Subject updated")
	return nil
}

// Delete removes a subject that no mark sheet has results for.
func (s *SubjectService) Delete(ctx context.Context, id int) error {
	used, err := s.subjectRepo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return repository.ErrReferenced
	}
	return s.subjectRepo.Delete(ctx, id)
}

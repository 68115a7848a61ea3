package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
)

// ReportService assembles report cards and result histories.
type ReportService struct {
	studentRepo *repository.StudentRepository
	classRepo   *repository.ClassRepository
	examRepo    *repository.ExamRepository
	subjectRepo *repository.SubjectRepository
	sheetRepo   *repository.MarkSheetRepository
	marks       *MarkSheetService
}

// NewReportService creates a new ReportService.
func NewReportService(
	studentRepo *repository.StudentRepository,
	classRepo *repository.ClassRepository,
	examRepo *repository.ExamRepository,
	subjectRepo *repository.SubjectRepository,
	sheetRepo *repository.MarkSheetRepository,
	marks *MarkSheetService,
) *ReportService {
	return &ReportService{
		studentRepo: studentRepo,
		classRepo:   classRepo,
		examRepo:    examRepo,
		subjectRepo: subjectRepo,
		sheetRepo:   sheetRepo,
		marks:       marks,
	}
}

// GetReportCard returns the report card of a student for one exam.
func (s *ReportService) GetReportCard(ctx context.Context, studentID int, examID uuid.UUID) (*model.ReportCard, error) {
	student, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}

	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	class, err := s.classRepo.GetByID(ctx, student.ClassID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	sheet, err := s.marks.Get(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}

	return &model.ReportCard{
		Student:   *student,
		Class:     *class,
		Exam:      *exam,
		MarkSheet: *sheet,
	}, nil
}

// ExamResults returns the persisted result sheet of an exam together with
// the class's subjects, which give the sheet its columns.
func (s *ReportService) ExamResults(ctx context.Context, examID uuid.UUID) (*model.ExamResults, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	class, err := s.classRepo.GetByID(ctx, exam.ClassID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjectRepo.List(ctx, &exam.ClassID)
	if err != nil {
		return nil, err
	}

	rows, err := s.sheetRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	res := &model.ExamResults{Exam: *exam, Class: *class, Subjects: subjects, Rows: rows}
	if res.Subjects == nil {
		res.Subjects = []model.Subject{}
	}
	if res.Rows == nil {
		res.Rows = []model.ExamResultRow{}
	}
	return res, nil
}

// ListResults returns every persisted result of a student, newest exam first.
func (s *ReportService) ListResults(ctx context.Context, studentID int) ([]model.StudentResult, error) {
	if _, err := s.student(ctx, studentID); err != nil {
		return nil, err
	}

	results, err := s.sheetRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.StudentResult{}
	}
	return results, nil
}

func (s *ReportService) student(ctx context.Context, id int) (*model.Student, error) {
	st, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return st, nil
}

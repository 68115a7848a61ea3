package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/markbook/internal/config"
	"github.com/stemsi/markbook/internal/grading"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
)

var (
	ErrNoMarksEntered        = errors.New("enter at least one mark")
	ErrStudentNotInExamClass = errors.New("student is not enrolled in the exam's class")
	ErrMarkSheetNotFound     = errors.New("mark sheet not found")
)

// Lookups the mark sheet service needs. The repository types implement them.
type (
	ExamFinder interface {
		GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
		Progress(ctx context.Context, classID *int) ([]model.ExamProgress, error)
	}
	StudentFinder interface {
		GetByID(ctx context.Context, id int) (*model.Student, error)
	}
	SubjectLister interface {
		List(ctx context.Context, classID *int) ([]model.Subject, error)
	}
	MarkSheetFinder interface {
		GetByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.MarkSheet, error)
	}
)

// MarkSheetService computes reports from entered marks. Submitted sheets are
// cached and queued in Redis; the report worker persists them to Postgres.
type MarkSheetService struct {
	exams    ExamFinder
	students StudentFinder
	subjects SubjectLister
	sheets   MarkSheetFinder
	rdb      *redis.Client
	cacheTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewMarkSheetService creates a new MarkSheetService.
func NewMarkSheetService(
	exams ExamFinder,
	students StudentFinder,
	subjects SubjectLister,
	sheets MarkSheetFinder,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *MarkSheetService {
	return &MarkSheetService{
		exams:    exams,
		students: students,
		subjects: subjects,
		sheets:   sheets,
		rdb:      rdb,
		cacheTTL: cfg.ReportCacheTTL,
		log:      log.With().Str("component", "mark_sheet_service").Logger(),
		now:      time.Now,
	}
}

// Preview computes a report from complete subject marks without storing it.
func (s *MarkSheetService) Preview(req *model.PreviewMarksRequest) (grading.ReportResult, error) {
	exam := grading.ExamContext{ExamID: req.ExamID, StudentID: req.StudentID}
	return grading.ComputeReport(exam, req.Subjects)
}

// Submit computes and stores the mark sheet of a student for an exam,
// replacing any earlier sheet.
func (s *MarkSheetService) Submit(ctx context.Context, actor Actor, req *model.SubmitMarksRequest) (*model.MarkSheet, error) {
	exam, err := s.exams.GetByID(ctx, req.ExamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.ClassID != exam.ClassID {
		return nil, ErrStudentNotInExamClass
	}

	subjects, err := s.subjects.List(ctx, &exam.ClassID)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}

	marks, err := BuildSubjectMarks(subjects, req.Marks)
	if err != nil {
		return nil, err
	}

	report, err := grading.ComputeReport(grading.ExamContext{ExamID: exam.ID.String(), StudentID: student.ID}, marks)
	if err != nil {
		return nil, err
	}
	if report.TotalObtained == 0 {
		return nil, ErrNoMarksEntered
	}

	now := s.now().UTC()
	sheet := &model.MarkSheet{
		ID:              uuid.New(),
		ExamID:          exam.ID,
		StudentID:       student.ID,
		Report:          report,
		Remark:          req.Remark,
		SubmittedBy:     actor.UserID,
		SubmittedByName: actor.Name,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.enqueue(ctx, sheet); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("exam_id", exam.ID.String()).
		Int("student_id", student.ID).
		Str("grade", string(report.OverallGrade)).
		Int("submitted_by", actor.UserID).
		Msg("Mark sheet submitted")
	return sheet, nil
}

// enqueue caches the sheet, queues it for persistence and announces it.
func (s *MarkSheetService) enqueue(ctx context.Context, sheet *model.MarkSheet) error {
	raw, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("marshal mark sheet: %w", err)
	}
	event, err := json.Marshal(model.MarksEvent{
		ExamID:       sheet.ExamID,
		StudentID:    sheet.StudentID,
		OverallGrade: sheet.Report.OverallGrade,
		IsPromoted:   sheet.Report.IsPromoted,
		SubmittedBy:  sheet.SubmittedByName,
	})
	if err != nil {
		return fmt.Errorf("marshal marks event: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, config.CacheKey.MarkSheetKey(sheet.ExamID.String(), sheet.StudentID), raw, s.cacheTTL)
	pipe.RPush(ctx, config.WorkerKey.PersistMarkSheetsQueue, raw)
	pipe.Publish(ctx, config.CacheKey.MarksEventsChannel(), event)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue mark sheet: %w", err)
	}
	return nil
}

// Get returns the current mark sheet, preferring the cache over Postgres.
func (s *MarkSheetService) Get(ctx context.Context, examID uuid.UUID, studentID int) (*model.MarkSheet, error) {
	key := config.CacheKey.MarkSheetKey(examID.String(), studentID)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var sheet model.MarkSheet
		if err := json.Unmarshal(raw, &sheet); err == nil {
			return &sheet, nil
		}
		s.log.Warn().Str("key", key).Msg("Discarding undecodable cached mark sheet")
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Str("key", key).Msg("Mark sheet cache read failed")
	}

	sheet, err := s.sheets.GetByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMarkSheetNotFound
		}
		return nil, err
	}

	if raw, err := json.Marshal(sheet); err == nil {
		_ = s.rdb.Set(ctx, key, raw, s.cacheTTL).Err()
	}
	return sheet, nil
}

// Queue reports entry progress per exam, optionally for one class.
func (s *MarkSheetService) Queue(ctx context.Context, classID *int) ([]model.ExamProgress, error) {
	progress, err := s.exams.Progress(ctx, classID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = []model.ExamProgress{}
	}
	return progress, nil
}

// BuildSubjectMarks joins entered marks with the thresholds of the class's
// subjects. Every class subject is graded, in class order; a subject with no
// entry scores zero. An entry for a subject outside the class is an invalid
// mark and a repeated entry is a duplicate.
func BuildSubjectMarks(subjects []model.Subject, entries []model.MarkEntry) ([]grading.SubjectMark, error) {
	if len(entries) == 0 {
		return nil, grading.ErrEmptyInput
	}

	inClass := make(map[int]struct{}, len(subjects))
	for _, sub := range subjects {
		inClass[sub.ID] = struct{}{}
	}

	obtained := make(map[int]int, len(entries))
	for _, e := range entries {
		if _, ok := inClass[e.SubjectID]; !ok {
			return nil, &grading.InvalidMarkError{SubjectID: e.SubjectID, Reason: "subject is not taught in the exam's class"}
		}
		if _, dup := obtained[e.SubjectID]; dup {
			return nil, &grading.DuplicateSubjectError{SubjectID: e.SubjectID}
		}
		obtained[e.SubjectID] = e.ObtainedMarks
	}

	marks := make([]grading.SubjectMark, len(subjects))
	for i, sub := range subjects {
		marks[i] = grading.SubjectMark{
			SubjectID:     sub.ID,
			SubjectName:   sub.Name,
			MaxMarks:      sub.MaxMarks,
			PassingMarks:  sub.PassingMarks,
			ObtainedMarks: obtained[sub.ID],
		}
	}
	return marks, nil
}

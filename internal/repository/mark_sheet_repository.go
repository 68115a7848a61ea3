package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/markbook/internal/grading"
	"github.com/stemsi/markbook/internal/model"
)

// MarkSheetRepository handles mark sheet data access.
type MarkSheetRepository struct {
	pool *pgxpool.Pool
}

// NewMarkSheetRepository creates a new MarkSheetRepository.
func NewMarkSheetRepository(pool *pgxpool.Pool) *MarkSheetRepository {
	return &MarkSheetRepository{pool: pool}
}

// upsertMarkSheetSQL replaces an existing sheet only with a submission that is
// at least as recent, so a requeued older sheet cannot overwrite a newer one.
const upsertMarkSheetSQL = `
	INSERT INTO mark_sheets (
		id, exam_id, student_id, subjects, total_obtained, total_maximum,
		overall_percentage, overall_grade, failed_subject_count, is_promoted,
		remark, submitted_by, submitted_by_name, created_at, updated_at
	)
	SELECT t.id, t.exam_id, t.student_id, t.subjects::jsonb, t.total_obtained, t.total_maximum,
	       t.overall_percentage, t.overall_grade, t.failed_subject_count, t.is_promoted,
	       t.remark, NULLIF(t.submitted_by, 0), t.submitted_by_name, t.submitted_at, t.submitted_at
	FROM UNNEST(
		$1::uuid[], $2::uuid[], $3::int[], $4::text[], $5::int[], $6::int[], $7::int[],
		$8::text[], $9::int[], $10::bool[], $11::text[], $12::int[], $13::text[], $14::timestamptz[]
	) AS t (
		id, exam_id, student_id, subjects, total_obtained, total_maximum, overall_percentage,
		overall_grade, failed_subject_count, is_promoted, remark, submitted_by, submitted_by_name,
		submitted_at
	)
	ON CONFLICT (exam_id, student_id) DO UPDATE SET
		id                   = EXCLUDED.id,
		subjects             = EXCLUDED.subjects,
		total_obtained       = EXCLUDED.total_obtained,
		total_maximum        = EXCLUDED.total_maximum,
		overall_percentage   = EXCLUDED.overall_percentage,
		overall_grade        = EXCLUDED.overall_grade,
		failed_subject_count = EXCLUDED.failed_subject_count,
		is_promoted          = EXCLUDED.is_promoted,
		remark               = EXCLUDED.remark,
		submitted_by         = EXCLUDED.submitted_by,
		submitted_by_name    = EXCLUDED.submitted_by_name,
		updated_at           = EXCLUDED.updated_at
	WHERE mark_sheets.updated_at <= EXCLUDED.updated_at`

// Upsert persists one mark sheet, replacing any previous sheet for the same
// exam and student.
func (r *MarkSheetRepository) Upsert(ctx context.Context, sheet *model.MarkSheet) error {
	return r.BulkUpsert(ctx, []*model.MarkSheet{sheet})
}

// BulkUpsert persists many mark sheets in one statement. The batch must not
// contain two sheets for the same exam and student. A sheet's UpdatedAt is its
// submission time.
func (r *MarkSheetRepository) BulkUpsert(ctx context.Context, sheets []*model.MarkSheet) error {
	n := len(sheets)
	if n == 0 {
		return nil
	}

	var (
		ids        = make([]uuid.UUID, n)
		examIDs    = make([]uuid.UUID, n)
		studentIDs = make([]int, n)
		subjects   = make([]string, n)
		obtained   = make([]int, n)
		maximum    = make([]int, n)
		percents   = make([]int, n)
		grades     = make([]string, n)
		failed     = make([]int, n)
		promoted   = make([]bool, n)
		remarks    = make([]string, n)
		byIDs      = make([]int, n)
		byNames    = make([]string, n)
		submitted  = make([]time.Time, n)
	)

	for i, s := range sheets {
		raw, err := json.Marshal(s.Report.SubjectResults)
		if err != nil {
			return fmt.Errorf("marshal subjects: %w", err)
		}
		rep := s.Report
		ids[i] = s.ID
		if ids[i] == uuid.Nil {
			ids[i] = uuid.New()
		}
		examIDs[i] = s.ExamID
		studentIDs[i] = s.StudentID
		subjects[i] = string(raw)
		obtained[i] = rep.TotalObtained
		maximum[i] = rep.TotalMaximum
		percents[i] = rep.OverallPercentage
		grades[i] = string(rep.OverallGrade)
		failed[i] = rep.FailedSubjectCount
		promoted[i] = rep.IsPromoted
		remarks[i] = s.Remark
		byIDs[i] = s.SubmittedBy
		byNames[i] = s.SubmittedByName
		submitted[i] = s.UpdatedAt
		if submitted[i].IsZero() {
			submitted[i] = time.Now()
		}
	}

	_, err := r.pool.Exec(ctx, upsertMarkSheetSQL,
		ids, examIDs, studentIDs, subjects, obtained, maximum, percents,
		grades, failed, promoted, remarks, byIDs, byNames, submitted,
	)
	return translate(err)
}

// GetByExamAndStudent retrieves the mark sheet of a student for an exam.
func (r *MarkSheetRepository) GetByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.MarkSheet, error) {
	s := &model.MarkSheet{}
	var (
		raw   []byte
		grade string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, subjects, total_obtained, total_maximum,
		        overall_percentage, overall_grade, failed_subject_count, is_promoted,
		        remark, COALESCE(submitted_by, 0), submitted_by_name, created_at, updated_at
		 FROM mark_sheets WHERE exam_id = $1 AND student_id = $2`,
		examID, studentID,
	).Scan(&s.ID, &s.ExamID, &s.StudentID, &raw, &s.Report.TotalObtained, &s.Report.TotalMaximum,
		&s.Report.OverallPercentage, &grade, &s.Report.FailedSubjectCount, &s.Report.IsPromoted,
		&s.Remark, &s.SubmittedBy, &s.SubmittedByName, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	if err := json.Unmarshal(raw, &s.Report.SubjectResults); err != nil {
		return nil, fmt.Errorf("decode subjects: %w", err)
	}
	s.Report.OverallGrade = grading.Grade(grade)
	s.Report.Exam = grading.ExamContext{ExamID: examID.String(), StudentID: studentID}
	return s, nil
}

// ListByStudent returns a summary line per exam the student has marks for.
func (r *MarkSheetRepository) ListByStudent(ctx context.Context, studentID int) ([]model.StudentResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.name, e.exam_date, m.total_obtained, m.total_maximum,
		        m.overall_percentage, m.overall_grade, m.failed_subject_count, m.is_promoted
		 FROM mark_sheets m
		 JOIN exams e ON e.id = m.exam_id
		 WHERE m.student_id = $1
		 ORDER BY e.exam_date DESC NULLS LAST, m.created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.StudentResult
	for rows.Next() {
		var res model.StudentResult
		if err := rows.Scan(&res.ExamID, &res.ExamName, &res.ExamDate, &res.TotalObtained, &res.TotalMaximum,
			&res.OverallPercentage, &res.OverallGrade, &res.FailedSubjectCount, &res.IsPromoted); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListByExam returns every persisted result of an exam in roll number order.
func (r *MarkSheetRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ExamResultRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.roll_number, s.name, m.subjects, m.total_obtained, m.total_maximum,
		        m.overall_percentage, m.overall_grade, m.failed_subject_count, m.is_promoted
		 FROM mark_sheets m
		 JOIN students s ON s.id = m.student_id
		 WHERE m.exam_id = $1
		 ORDER BY s.roll_number`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ExamResultRow
	for rows.Next() {
		var (
			row model.ExamResultRow
			raw []byte
		)
		if err := rows.Scan(&row.StudentID, &row.RollNumber, &row.StudentName, &raw, &row.TotalObtained, &row.TotalMaximum,
			&row.OverallPercentage, &row.OverallGrade, &row.FailedSubjectCount, &row.IsPromoted); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &row.SubjectResults); err != nil {
			return nil, fmt.Errorf("decode subjects of student %d: %w", row.StudentID, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

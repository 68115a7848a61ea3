package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/markbook/internal/model"
)

const examColumns = `id, name, class_id, exam_date, created_at, updated_at`

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

func scanExam(row rowScanner) (*model.Exam, error) {
	e := &model.Exam{}
	if err := row.Scan(&e.ID, &e.Name, &e.ClassID, &e.ExamDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx, `SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// List retrieves exams, newest first, optionally for one class.
func (r *ExamRepository) List(ctx context.Context, classID *int) ([]model.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams`
	var args []interface{}
	if classID != nil {
		query += ` WHERE class_id = $1`
		args = append(args, *classID)
	}
	query += ` ORDER BY exam_date DESC NULLS LAST, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (name, class_id, exam_date) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		e.Name, e.ClassID, e.ExamDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return translate(err)
}

// Update modifies an exam.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET name = $1, class_id = $2, exam_date = $3, updated_at = NOW() WHERE id = $4`,
		e.Name, e.ClassID, e.ExamDate, e.ID)
	if err != nil {
		return translate(err)
	}
	return affected(tag.RowsAffected())
}

// Delete removes an exam together with its mark sheets.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return affected(tag.RowsAffected())
}

// Progress returns, per exam, the class size and how many mark sheets exist.
func (r *ExamRepository) Progress(ctx context.Context, classID *int) ([]model.ExamProgress, error) {
	query := `
		SELECT e.id, e.name, e.class_id,
		       (SELECT COUNT(*) FROM students s WHERE s.class_id = e.class_id),
		       (SELECT COUNT(*) FROM mark_sheets m WHERE m.exam_id = e.id)
		FROM exams e`
	var args []interface{}
	if classID != nil {
		query += ` WHERE e.class_id = $1`
		args = append(args, *classID)
	}
	query += ` ORDER BY e.exam_date DESC NULLS LAST, e.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ExamProgress
	for rows.Next() {
		var p model.ExamProgress
		if err := rows.Scan(&p.ExamID, &p.ExamName, &p.ClassID, &p.TotalStudents, &p.Completed); err != nil {
			return nil, err
		}
		p.Pending = p.TotalStudents - p.Completed
		if p.Pending < 0 {
			p.Pending = 0
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

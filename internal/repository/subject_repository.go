package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/markbook/internal/model"
)

const subjectColumns = `id, class_id, name, max_marks, passing_marks, created_at, updated_at`

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// List returns subjects ordered by name, optionally limited to one class.
func (r *SubjectRepository) List(ctx context.Context, classID *int) ([]model.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects`
	var args []interface{}
	if classID != nil {
		query += ` WHERE class_id = $1`
		args = append(args, *classID)
	}
	query += ` ORDER BY class_id, name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.ClassID, &s.Name, &s.MaxMarks, &s.PassingMarks, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subjects (class_id, name, max_marks, passing_marks)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		s.ClassID, s.Name, s.MaxMarks, s.PassingMarks,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subjects SET class_id = $1, name = $2, max_marks = $3, passing_marks = $4, updated_at = NOW()
		 WHERE id = $5`,
		s.ClassID, s.Name, s.MaxMarks, s.PassingMarks, s.ID)
	if err != nil {
		return translate(err)
	}
	return affected(tag.RowsAffected())
}

func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return affected(tag.RowsAffected())
}

// InUse reports whether any mark sheet carries a result for the subject.
func (r *SubjectRepository) InUse(ctx context.Context, id int) (bool, error) {
	var used bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM mark_sheets
			WHERE subjects @> jsonb_build_array(jsonb_build_object('subject_id', $1::int))
		)`, id).Scan(&used)
	return used, err
}

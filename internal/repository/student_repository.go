package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/markbook/internal/model"
)

const studentColumns = `id, roll_number, name, class_id, parent_email, created_at, updated_at`

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row rowScanner) (*model.Student, error) {
	s := &model.Student{}
	if err := row.Scan(&s.ID, &s.RollNumber, &s.Name, &s.ClassID, &s.ParentEmail, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

// ListPaginated retrieves students with an optional class filter and a
// name / roll-number search.
func (r *StudentRepository) ListPaginated(ctx context.Context, classID *int, search string, limit, offset int) ([]model.Student, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}

	if classID != nil {
		args = append(args, *classID)
		where += ` AND class_id = $` + strconv.Itoa(len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR roll_number ILIKE $` + n + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + studentColumns + ` FROM students` + where +
		` ORDER BY class_id, roll_number LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, *s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (roll_number, name, class_id, parent_email)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.RollNumber, s.Name, s.ClassID, s.ParentEmail,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

// Update modifies a student's record.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET roll_number = $1, name = $2, class_id = $3, parent_email = $4, updated_at = NOW()
		 WHERE id = $5`,
		s.RollNumber, s.Name, s.ClassID, s.ParentEmail, s.ID,
	)
	if err != nil {
		return translate(err)
	}
	return affected(tag.RowsAffected())
}

// Delete removes a student and, by cascade, their mark sheets and account.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return affected(tag.RowsAffected())
}

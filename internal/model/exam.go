package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam is a named assessment event scoped to one class.
type Exam struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ClassID   int        `json:"class_id"`
	ExamDate  *time.Time `json:"exam_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ExamRequest is the payload for creating or updating an exam.
type ExamRequest struct {
	Name     string     `json:"name" binding:"required,notblank,min=2,max=255"`
	ClassID  int        `json:"class_id" binding:"required,min=1"`
	ExamDate *time.Time `json:"exam_date" binding:"omitempty"`
}

// ExamProgress is one row of the marks queue: how many students of the
// exam's class have a submitted mark sheet.
type ExamProgress struct {
	ExamID        uuid.UUID `json:"exam_id"`
	ExamName      string    `json:"exam_name"`
	ClassID       int       `json:"class_id"`
	TotalStudents int       `json:"total_students"`
	Completed     int       `json:"completed"`
	Pending       int       `json:"pending"`
}

package model

import "time"

// Student represents a student record.
type Student struct {
	ID          int       `json:"id"`
	RollNumber  string    `json:"roll_number"`
	Name        string    `json:"name"`
	ClassID     int       `json:"class_id"`
	ParentEmail string    `json:"parent_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	RollNumber  string `json:"roll_number" binding:"required,notblank,max=20"`
	Name        string `json:"name" binding:"required,notblank,min=2,max=100"`
	ClassID     int    `json:"class_id" binding:"required,min=1"`
	ParentEmail string `json:"parent_email" binding:"omitempty,email,max=255"`
}

// StudentFilter narrows the student list.
type StudentFilter struct {
	ClassID *int   `form:"class_id" binding:"omitempty,min=1"`
	Search  string `form:"q" binding:"omitempty,max=100"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

package model

import "time"

// Subject is a gradable unit within one class, with its own mark thresholds.
type Subject struct {
	ID           int       `json:"id"`
	ClassID      int       `json:"class_id"`
	Name         string    `json:"name"`
	MaxMarks     int       `json:"max_marks"`
	PassingMarks int       `json:"passing_marks"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubjectRequest is the payload for creating or updating a subject.
type SubjectRequest struct {
	ClassID      int    `json:"class_id" binding:"required,min=1"`
	Name         string `json:"name" binding:"required,notblank,min=2,max=100"`
	MaxMarks     int    `json:"max_marks" binding:"required,min=1,max=1000"`
	PassingMarks int    `json:"passing_marks" binding:"min=0,ltefield=MaxMarks"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/markbook/internal/grading"
)

// MarkSheet is a persisted report: the computed result for one student in one
// exam plus the audit fields of whoever entered it.
type MarkSheet struct {
	ID              uuid.UUID            `json:"id"`
	ExamID          uuid.UUID            `json:"exam_id"`
	StudentID       int                  `json:"student_id"`
	Report          grading.ReportResult `json:"report"`
	Remark          string               `json:"remark,omitempty"`
	SubmittedBy     int                  `json:"submitted_by"`
	SubmittedByName string               `json:"submitted_by_name"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// MarkEntry is one obtained mark as entered by a teacher.
type MarkEntry struct {
	SubjectID     int `json:"subject_id" binding:"required,min=1"`
	ObtainedMarks int `json:"obtained_marks" binding:"min=0"`
}

// SubmitMarksRequest is the payload for entering an exam's marks.
type SubmitMarksRequest struct {
	ExamID    uuid.UUID   `json:"exam_id" binding:"required"`
	StudentID int         `json:"student_id" binding:"required,min=1"`
	Remark    string      `json:"remark" binding:"max=1000"`
	Marks     []MarkEntry `json:"marks" binding:"dive"`
}

// PreviewMarksRequest carries complete subject marks for an ad-hoc
// computation. Range checks are left to the calculator so its errors surface.
type PreviewMarksRequest struct {
	ExamID    string                `json:"exam_id"`
	StudentID int                   `json:"student_id"`
	Subjects  []grading.SubjectMark `json:"subjects"`
}

// MarkSheetQuery selects a single mark sheet.
type MarkSheetQuery struct {
	ExamID    string `form:"exam_id" binding:"required,uuid"`
	StudentID int    `form:"student_id" binding:"required,min=1"`
}

// StudentResult is one line of a student's results list.
type StudentResult struct {
	ExamID             uuid.UUID     `json:"exam_id"`
	ExamName           string        `json:"exam_name"`
	ExamDate           *time.Time    `json:"exam_date,omitempty"`
	TotalObtained      int           `json:"total_obtained"`
	TotalMaximum       int           `json:"total_maximum"`
	OverallPercentage  int           `json:"overall_percentage"`
	OverallGrade       grading.Grade `json:"overall_grade"`
	FailedSubjectCount int           `json:"failed_subject_count"`
	IsPromoted         bool          `json:"is_promoted"`
}

// ReportCard is the printable view of one mark sheet.
type ReportCard struct {
	Student   Student   `json:"student"`
	Class     Class     `json:"class"`
	Exam      Exam      `json:"exam"`
	MarkSheet MarkSheet `json:"mark_sheet"`
}

// MarksEvent is broadcast whenever a mark sheet is submitted.
type MarksEvent struct {
	ExamID       uuid.UUID     `json:"exam_id"`
	StudentID    int           `json:"student_id"`
	OverallGrade grading.Grade `json:"overall_grade"`
	IsPromoted   bool          `json:"is_promoted"`
	SubmittedBy  string        `json:"submitted_by"`
}

// ExamResultRow is one student's line in a class result sheet.
type ExamResultRow struct {
	StudentID          int                     `json:"student_id"`
	RollNumber         string                  `json:"roll_number"`
	StudentName        string                  `json:"student_name"`
	SubjectResults     []grading.SubjectResult `json:"subject_results"`
	TotalObtained      int                     `json:"total_obtained"`
	TotalMaximum       int                     `json:"total_maximum"`
	OverallPercentage  int                     `json:"overall_percentage"`
	OverallGrade       grading.Grade           `json:"overall_grade"`
	FailedSubjectCount int                     `json:"failed_subject_count"`
	IsPromoted         bool                    `json:"is_promoted"`
}

// ExamResults is the persisted result sheet of a whole exam.
type ExamResults struct {
	Exam     Exam            `json:"exam"`
	Class    Class           `json:"class"`
	Subjects []Subject       `json:"subjects"`
	Rows     []ExamResultRow `json:"rows"`
}

package model

// DashboardSummary holds the admin dashboard counters.
type DashboardSummary struct {
	TotalStudents   int `json:"total_students"`
	TotalClasses    int `json:"total_classes"`
	TotalSubjects   int `json:"total_subjects"`
	TotalExams      int `json:"total_exams"`
	TotalMarkSheets int `json:"total_mark_sheets"`
}

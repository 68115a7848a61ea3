// Package grading computes exam reports from per-subject marks.
//
// The calculator is pure: it performs no I/O and keeps no state, so a single
// report can be computed from any goroutine without coordination.
//
// Percentages are rounded half away from zero. Marks are non-negative
// integers, so the rounding is done in integer arithmetic and is exact at the
// .5 boundaries the grade thresholds depend on.
package grading

// Grade is an overall letter grade.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// ExamContext identifies the exam attempt. It is echoed into the result and
// never interpreted.
type ExamContext struct {
	ExamID    string `json:"exam_id"`
	StudentID int    `json:"student_id"`
}

// SubjectMark is the input for one subject.
type SubjectMark struct {
	SubjectID     int    `json:"subject_id"`
	SubjectName   string `json:"subject_name"`
	MaxMarks      int    `json:"max_marks"`
	PassingMarks  int    `json:"passing_marks"`
	ObtainedMarks int    `json:"obtained_marks"`
}

// SubjectResult is a SubjectMark with its derived percentage and status.
type SubjectResult struct {
	SubjectMark
	Percentage int  `json:"percentage"`
	IsPassed   bool `json:"is_passed"`
}

// ReportResult is the computed report for one exam attempt.
type ReportResult struct {
	Exam               ExamContext     `json:"exam"`
	SubjectResults     []SubjectResult `json:"subject_results"`
	TotalObtained      int             `json:"total_obtained"`
	TotalMaximum       int             `json:"total_maximum"`
	OverallPercentage  int             `json:"overall_percentage"`
	OverallGrade       Grade           `json:"overall_grade"`
	FailedSubjectCount int             `json:"failed_subject_count"`
	IsPromoted         bool            `json:"is_promoted"`
}

// gradeThresholds is evaluated top-down; the first match wins.
var gradeThresholds = []struct {
	min   int
	grade Grade
}{
	{90, GradeAPlus},
	{80, GradeA},
	{70, GradeB},
	{60, GradeC},
	{35, GradeD},
}

// ComputeReport validates marks and computes the report.
// Nothing is computed unless every entry validates.
func ComputeReport(exam ExamContext, marks []SubjectMark) (ReportResult, error) {
	if err := Validate(marks); err != nil {
		return ReportResult{}, err
	}

	res := ReportResult{
		Exam:           exam,
		SubjectResults: make([]SubjectResult, len(marks)),
	}

	for i, m := range marks {
		passed := m.ObtainedMarks >= m.PassingMarks
		res.SubjectResults[i] = SubjectResult{
			SubjectMark: m,
			Percentage:  Percent(m.ObtainedMarks, m.MaxMarks),
			IsPassed:    passed,
		}
		res.TotalObtained += m.ObtainedMarks
		res.TotalMaximum += m.MaxMarks
		if !passed {
			res.FailedSubjectCount++
		}
	}

	res.OverallPercentage = Percent(res.TotalObtained, res.TotalMaximum)
	res.OverallGrade = GradeFor(res.OverallPercentage)
	res.IsPromoted = res.FailedSubjectCount == 0

	return res, nil
}

// Validate checks marks without computing anything.
func Validate(marks []SubjectMark) error {
	if len(marks) == 0 {
		return ErrEmptyInput
	}

	seen := make(map[int]struct{}, len(marks))
	for _, m := range marks {
		if reason := checkMark(m); reason != "" {
			return &InvalidMarkError{SubjectID: m.SubjectID, Reason: reason}
		}
		if _, dup := seen[m.SubjectID]; dup {
			return &DuplicateSubjectError{SubjectID: m.SubjectID}
		}
		seen[m.SubjectID] = struct{}{}
	}
	return nil
}

func checkMark(m SubjectMark) string {
	switch {
	case m.MaxMarks <= 0:
		return "max marks must be greater than zero"
	case m.PassingMarks < 0:
		return "passing marks must not be negative"
	case m.PassingMarks > m.MaxMarks:
		return "passing marks exceed max marks"
	case m.ObtainedMarks < 0:
		return "obtained marks must not be negative"
	case m.ObtainedMarks > m.MaxMarks:
		return "obtained marks exceed max marks"
	}
	return ""
}

// Percent returns round(part / whole * 100), rounding halves away from zero.
// It returns 0 when whole is not positive. Both arguments must be non-negative.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	// floor((200*part + whole) / (2*whole)) == floor(part*100/whole + 0.5)
	return (200*part + whole) / (2 * whole)
}

// GradeFor maps an overall percentage onto the grade ladder.
func GradeFor(percentage int) Grade {
	for _, t := range gradeThresholds {
		if percentage >= t.min {
			return t.grade
		}
	}
	return GradeF
}

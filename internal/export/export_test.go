package export

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/markbook/internal/grading"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testFont = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"

func sampleResults(t *testing.T) *model.ExamResults {
	t.Helper()
	subjects := []model.Subject{
		{ID: 1, Name: "Mathematics", MaxMarks: 100, PassingMarks: 35},
		{ID: 2, Name: "Science", MaxMarks: 50, PassingMarks: 18},
	}

	report, err := grading.ComputeReport(grading.ExamContext{}, []grading.SubjectMark{
		{SubjectID: 1, SubjectName: "Mathematics", MaxMarks: 100, PassingMarks: 35, ObtainedMarks: 90},
		{SubjectID: 2, SubjectName: "Science", MaxMarks: 50, PassingMarks: 18, ObtainedMarks: 10},
	})
	require.NoError(t, err)

	partial, err := grading.ComputeReport(grading.ExamContext{}, []grading.SubjectMark{
		{SubjectID: 2, SubjectName: "Science", MaxMarks: 50, PassingMarks: 18, ObtainedMarks: 45},
	})
	require.NoError(t, err)

	row := func(id int, roll, name string, r grading.ReportResult) model.ExamResultRow {
		return model.ExamResultRow{
			StudentID:          id,
			RollNumber:         roll,
			StudentName:        name,
			SubjectResults:     r.SubjectResults,
			TotalObtained:      r.TotalObtained,
			TotalMaximum:       r.TotalMaximum,
			OverallPercentage:  r.OverallPercentage,
			OverallGrade:       r.OverallGrade,
			FailedSubjectCount: r.FailedSubjectCount,
			IsPromoted:         r.IsPromoted,
		}
	}

	return &model.ExamResults{
		Exam:     model.Exam{ID: uuid.New(), Name: "Half Yearly", ClassID: 1},
		Class:    model.Class{ID: 1, Name: "10", Section: "A"},
		Subjects: subjects,
		Rows: []model.ExamResultRow{
			row(1, "01", "Asha Rao", report),
			row(2, "02", "Ben Okafor", partial),
		},
	}
}

func TestExamResultsWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExamResultsWorkbook(&buf, sampleResults(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ResultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Roll No", "Name", "Mathematics (100)", "Science (50)",
		"Total", "Max", "Percentage", "Grade", "Result",
	}, rows[0])
	assert.Equal(t, []string{"01", "Asha Rao", "90", "10", "100", "150", "67", "C", "Not Promoted"}, rows[1])
	assert.Equal(t, []string{"02", "Ben Okafor", "", "45", "45", "50", "90", "A+", "Promoted"}, rows[2])
}

func TestExamResultsWorkbook_NoRows(t *testing.T) {
	res := sampleResults(t)
	res.Rows = nil

	var buf bytes.Buffer
	require.NoError(t, ExamResultsWorkbook(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ResultsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "Promoted", ResultLabel(true))
	assert.Equal(t, "Not Promoted", ResultLabel(false))
}

func TestPDFRenderer_MissingFont(t *testing.T) {
	r := NewPDFRenderer("/nonexistent/font.ttf")
	err := r.ReportCard(&bytes.Buffer{}, &model.ReportCard{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load report font")

	// The failure is remembered.
	assert.Equal(t, err, r.ReportCard(&bytes.Buffer{}, &model.ReportCard{}))
}

func TestPDFRenderer_ReportCard(t *testing.T) {
	if _, err := os.Stat(testFont); err != nil {
		t.Skipf("font not available: %v", err)
	}

	res := sampleResults(t)
	report, err := grading.ComputeReport(grading.ExamContext{ExamID: res.Exam.ID.String(), StudentID: 1}, []grading.SubjectMark{
		{SubjectID: 1, SubjectName: "Mathematics", MaxMarks: 100, PassingMarks: 35, ObtainedMarks: 90},
		{SubjectID: 2, SubjectName: "Science", MaxMarks: 50, PassingMarks: 18, ObtainedMarks: 10},
	})
	require.NoError(t, err)

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	res.Exam.ExamDate = &date
	card := &model.ReportCard{
		Student: model.Student{ID: 1, RollNumber: "01", Name: "Asha Rao", ClassID: 1},
		Class:   res.Class,
		Exam:    res.Exam,
		MarkSheet: model.MarkSheet{
			ExamID:          res.Exam.ID,
			StudentID:       1,
			Report:          report,
			Remark:          "Needs more practice in science.",
			SubmittedByName: "Teacher One",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPDFRenderer(testFont).ReportCard(&buf, card))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

package grading

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mark(id, max, pass, obtained int) SubjectMark {
	return SubjectMark{SubjectID: id, SubjectName: "S", MaxMarks: max, PassingMarks: pass, ObtainedMarks: obtained}
}

func TestComputeReport_MixedResult(t *testing.T) {
	exam := ExamContext{ExamID: "mid-term", StudentID: 7}
	res, err := ComputeReport(exam, []SubjectMark{
		mark(1, 100, 35, 90),
		mark(2, 100, 35, 20),
	})
	require.NoError(t, err)

	assert.Equal(t, exam, res.Exam)
	assert.Equal(t, 110, res.TotalObtained)
	assert.Equal(t, 200, res.TotalMaximum)
	assert.Equal(t, 55, res.OverallPercentage)
	assert.Equal(t, GradeD, res.OverallGrade)
	assert.Equal(t, 1, res.FailedSubjectCount)
	assert.False(t, res.IsPromoted)

	require.Len(t, res.SubjectResults, 2)
	assert.Equal(t, 90, res.SubjectResults[0].Percentage)
	assert.True(t, res.SubjectResults[0].IsPassed)
	assert.Equal(t, 20, res.SubjectResults[1].Percentage)
	assert.False(t, res.SubjectResults[1].IsPassed)
}

func TestComputeReport_FullMarks(t *testing.T) {
	res, err := ComputeReport(ExamContext{}, []SubjectMark{
		mark(1, 100, 35, 100),
		mark(2, 50, 20, 50),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, res.OverallPercentage)
	assert.Equal(t, GradeAPlus, res.OverallGrade)
	assert.True(t, res.IsPromoted)
	assert.Zero(t, res.FailedSubjectCount)
}

func TestComputeReport_PassingIsInclusive(t *testing.T) {
	res, err := ComputeReport(ExamContext{}, []SubjectMark{mark(1, 100, 35, 35)})
	require.NoError(t, err)
	assert.True(t, res.SubjectResults[0].IsPassed)
	assert.True(t, res.IsPromoted)
}

func TestComputeReport_GradeBoundaries(t *testing.T) {
	tests := []struct {
		obtained int
		want     Grade
	}{
		{100, GradeAPlus},
		{90, GradeAPlus},
		{89, GradeA},
		{80, GradeA},
		{79, GradeB},
		{70, GradeB},
		{69, GradeC},
		{60, GradeC},
		{59, GradeD},
		{35, GradeD},
		{34, GradeF},
		{0, GradeF},
	}
	for _, tt := range tests {
		res, err := ComputeReport(ExamContext{}, []SubjectMark{mark(1, 100, 0, tt.obtained)})
		require.NoError(t, err)
		assert.Equal(t, tt.obtained, res.OverallPercentage)
		assert.Equal(t, tt.want, res.OverallGrade, "obtained %d", tt.obtained)
	}
}

func TestPercent_RoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name        string
		part, whole int
		want        int
	}{
		{"exact", 45, 50, 90},
		{"half rounds up", 1, 200, 1},
		{"just below half", 2, 401, 0},
		{"89.5 becomes 90", 179, 200, 90},
		{"89.0 stays", 178, 200, 89},
		{"34.5 becomes 35", 69, 200, 35},
		{"two thirds", 2, 3, 67},
		{"one third", 1, 3, 33},
		{"zero whole", 5, 0, 0},
		{"zero part", 0, 7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.part, tt.whole))
		})
	}
}

func TestComputeReport_RoundedBoundaryDecidesGrade(t *testing.T) {
	// 179/200 = 89.5% rounds to 90.
	res, err := ComputeReport(ExamContext{}, []SubjectMark{
		mark(1, 100, 35, 90),
		mark(2, 100, 35, 89),
	})
	require.NoError(t, err)
	assert.Equal(t, 90, res.OverallPercentage)
	assert.Equal(t, GradeAPlus, res.OverallGrade)

	// 69/200 = 34.5% rounds to 35.
	res, err = ComputeReport(ExamContext{}, []SubjectMark{
		mark(1, 100, 0, 35),
		mark(2, 100, 0, 34),
	})
	require.NoError(t, err)
	assert.Equal(t, 35, res.OverallPercentage)
	assert.Equal(t, GradeD, res.OverallGrade)
}

func TestComputeReport_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		marks     []SubjectMark
		wantErr   error
		subjectID int
	}{
		{name: "nil", marks: nil, wantErr: ErrEmptyInput},
		{name: "empty", marks: []SubjectMark{}, wantErr: ErrEmptyInput},
		{name: "obtained above max", marks: []SubjectMark{mark(3, 100, 35, 150)}, wantErr: ErrInvalidMark, subjectID: 3},
		{name: "obtained negative", marks: []SubjectMark{mark(4, 100, 35, -1)}, wantErr: ErrInvalidMark, subjectID: 4},
		{name: "zero max", marks: []SubjectMark{mark(5, 0, 0, 0)}, wantErr: ErrInvalidMark, subjectID: 5},
		{name: "negative max", marks: []SubjectMark{mark(6, -10, 0, 0)}, wantErr: ErrInvalidMark, subjectID: 6},
		{name: "passing above max", marks: []SubjectMark{mark(7, 50, 60, 10)}, wantErr: ErrInvalidMark, subjectID: 7},
		{name: "passing negative", marks: []SubjectMark{mark(8, 50, -1, 10)}, wantErr: ErrInvalidMark, subjectID: 8},
		{name: "invalid after valid", marks: []SubjectMark{mark(1, 100, 35, 50), mark(9, 100, 35, 101)}, wantErr: ErrInvalidMark, subjectID: 9},
		{name: "duplicate", marks: []SubjectMark{mark(1, 100, 35, 50), mark(1, 100, 35, 60)}, wantErr: ErrDuplicateSubject, subjectID: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ComputeReport(ExamContext{}, tt.marks)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, res.SubjectResults)

			var invalid *InvalidMarkError
			if errors.As(err, &invalid) {
				assert.Equal(t, tt.subjectID, invalid.SubjectID)
				assert.NotEmpty(t, invalid.Reason)
			}
			var dup *DuplicateSubjectError
			if errors.As(err, &dup) {
				assert.Equal(t, tt.subjectID, dup.SubjectID)
			}
		})
	}
}

func TestComputeReport_PreservesOrder(t *testing.T) {
	marks := []SubjectMark{mark(30, 100, 35, 10), mark(10, 100, 35, 20), mark(20, 100, 35, 30)}
	res, err := ComputeReport(ExamContext{}, marks)
	require.NoError(t, err)
	for i, m := range marks {
		assert.Equal(t, m, res.SubjectResults[i].SubjectMark)
	}
}

func TestComputeReport_Idempotent(t *testing.T) {
	marks := []SubjectMark{mark(1, 80, 30, 61), mark(2, 40, 14, 13)}
	first, err := ComputeReport(ExamContext{ExamID: "x", StudentID: 1}, marks)
	require.NoError(t, err)
	second, err := ComputeReport(ExamContext{ExamID: "x", StudentID: 1}, marks)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeReport_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(8)
		marks := make([]SubjectMark, n)
		for j := range marks {
			max := 1 + rng.Intn(200)
			marks[j] = mark(j, max, rng.Intn(max+1), rng.Intn(max+1))
		}

		res, err := ComputeReport(ExamContext{}, marks)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.OverallPercentage, 0)
		assert.LessOrEqual(t, res.OverallPercentage, 100)
		assert.LessOrEqual(t, res.TotalObtained, res.TotalMaximum)

		allPassed := true
		for _, sr := range res.SubjectResults {
			allPassed = allPassed && sr.IsPassed
		}
		assert.Equal(t, allPassed, res.IsPromoted)
	}
}

func TestGradeFor(t *testing.T) {
	assert.Equal(t, GradeAPlus, GradeFor(90))
	assert.Equal(t, GradeA, GradeFor(89))
	assert.Equal(t, GradeD, GradeFor(35))
	assert.Equal(t, GradeF, GradeFor(34))
	assert.Equal(t, GradeF, GradeFor(-1))
}

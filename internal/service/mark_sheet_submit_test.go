package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/markbook/internal/config"
	"github.com/stemsi/markbook/internal/grading"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExams map[uuid.UUID]*model.Exam

func (f fakeExams) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	if e, ok := f[id]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (fakeExams) Progress(context.Context, *int) ([]model.ExamProgress, error) {
	return nil, nil
}

type fakeStudents map[int]*model.Student

func (f fakeStudents) GetByID(_ context.Context, id int) (*model.Student, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

type fakeSubjects []model.Subject

func (f fakeSubjects) List(_ context.Context, classID *int) ([]model.Subject, error) {
	var out []model.Subject
	for _, s := range f {
		if classID == nil || s.ClassID == *classID {
			out = append(out, s)
		}
	}
	return out, nil
}

type noSheets struct{}

func (noSheets) GetByExamAndStudent(context.Context, uuid.UUID, int) (*model.MarkSheet, error) {
	return nil, repository.ErrNotFound
}

var (
	submitExamID = uuid.MustParse("5b0c3c4e-7f0a-4a8e-9d55-2f4f1f0e6a11")
	submitTime   = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

func newSubmitService(t *testing.T) (*MarkSheetService, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	exams := fakeExams{submitExamID: {ID: submitExamID, Name: "Half Yearly", ClassID: 10}}
	students := fakeStudents{
		4: {ID: 4, RollNumber: "04", Name: "Asha Rao", ClassID: 10},
		5: {ID: 5, RollNumber: "05", Name: "Ben Okafor", ClassID: 11},
	}

	svc := NewMarkSheetService(exams, students, fakeSubjects(classSubjects()), noSheets{}, rdb,
		&config.Config{ReportCacheTTL: time.Hour}, zerolog.Nop())
	svc.now = func() time.Time { return submitTime }
	return svc, mr, rdb
}

func submitReq(studentID int, marks ...model.MarkEntry) *model.SubmitMarksRequest {
	return &model.SubmitMarksRequest{ExamID: submitExamID, StudentID: studentID, Remark: "Keep it up", Marks: marks}
}

func TestMarkSheetService_SubmitGuards(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.SubmitMarksRequest
		wantErr error
	}{
		{"unknown exam", &model.SubmitMarksRequest{ExamID: uuid.New(), StudentID: 4, Marks: []model.MarkEntry{{SubjectID: 1, ObtainedMarks: 50}}}, ErrExamNotFound},
		{"unknown student", submitReq(99, model.MarkEntry{SubjectID: 1, ObtainedMarks: 50}), ErrStudentNotFound},
		{"student of another class", submitReq(5, model.MarkEntry{SubjectID: 1, ObtainedMarks: 50}), ErrStudentNotInExamClass},
		{"no entries", submitReq(4), grading.ErrEmptyInput},
		{"all zero", submitReq(4, model.MarkEntry{SubjectID: 1}, model.MarkEntry{SubjectID: 2}), ErrNoMarksEntered},
		{"foreign subject", submitReq(4, model.MarkEntry{SubjectID: 42, ObtainedMarks: 10}), grading.ErrInvalidMark},
		{"above max", submitReq(4, model.MarkEntry{SubjectID: 3, ObtainedMarks: 51}), grading.ErrInvalidMark},
		{"duplicate entry", submitReq(4, model.MarkEntry{SubjectID: 1, ObtainedMarks: 5}, model.MarkEntry{SubjectID: 1, ObtainedMarks: 6}), grading.ErrDuplicateSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mr, _ := newSubmitService(t)

			sheet, err := svc.Submit(context.Background(), Actor{UserID: 2, Name: "Teacher One"}, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, sheet)
			assert.False(t, mr.Exists(config.WorkerKey.PersistMarkSheetsQueue), "nothing queued")
		})
	}
}

func TestMarkSheetService_SubmitQueuesCachesAndPublishes(t *testing.T) {
	svc, mr, rdb := newSubmitService(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, config.CacheKey.MarksEventsChannel())
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	sheet, err := svc.Submit(ctx, Actor{UserID: 2, Name: "Teacher One"},
		submitReq(4, model.MarkEntry{SubjectID: 1, ObtainedMarks: 90}, model.MarkEntry{SubjectID: 3, ObtainedMarks: 45}))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sheet.ID)
	assert.Equal(t, submitExamID, sheet.ExamID)
	assert.Equal(t, 4, sheet.StudentID)
	assert.Equal(t, "Keep it up", sheet.Remark)
	assert.Equal(t, 2, sheet.SubmittedBy)
	assert.Equal(t, "Teacher One", sheet.SubmittedByName)
	assert.True(t, submitTime.Equal(sheet.UpdatedAt))
	assert.Equal(t, grading.ExamContext{ExamID: submitExamID.String(), StudentID: 4}, sheet.Report.Exam)
	assert.Len(t, sheet.Report.SubjectResults, 3, "omitted Science is graded as zero")
	assert.False(t, sheet.Report.IsPromoted)

	queued, err := mr.List(config.WorkerKey.PersistMarkSheetsQueue)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	var fromQueue model.MarkSheet
	require.NoError(t, json.Unmarshal([]byte(queued[0]), &fromQueue))
	assert.Equal(t, sheet.ID, fromQueue.ID)
	assert.Equal(t, sheet.Report, fromQueue.Report)
	assert.True(t, submitTime.Equal(fromQueue.UpdatedAt))

	key := config.CacheKey.MarkSheetKey(submitExamID.String(), 4)
	assert.Equal(t, time.Hour, mr.TTL(key))

	select {
	case msg := <-sub.Channel():
		var evt model.MarksEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
		assert.Equal(t, model.MarksEvent{
			ExamID:       submitExamID,
			StudentID:    4,
			OverallGrade: sheet.Report.OverallGrade,
			IsPromoted:   false,
			SubmittedBy:  "Teacher One",
		}, evt)
	case <-time.After(2 * time.Second):
		t.Fatal("no marks event published")
	}

	cached, err := svc.Get(ctx, submitExamID, 4)
	require.NoError(t, err)
	assert.Equal(t, sheet.ID, cached.ID)
	assert.Equal(t, sheet.Report, cached.Report)
}

func TestMarkSheetService_GetMissing(t *testing.T) {
	svc, _, _ := newSubmitService(t)

	_, err := svc.Get(context.Background(), submitExamID, 4)
	assert.ErrorIs(t, err, ErrMarkSheetNotFound)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/markbook/internal/grading"
	"github.com/stemsi/markbook/internal/repository"
	"github.com/stemsi/markbook/internal/response"
	"github.com/stemsi/markbook/internal/service"
)

// fail maps a service error onto the response envelope. Errors without a
// mapping are attached to the context for the access log and reported as
// internal errors.
func fail(c *gin.Context, err error) {
	var invalid *grading.InvalidMarkError
	var dup *grading.DuplicateSubjectError

	switch {
	case errors.As(err, &invalid):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrInvalidMark,
			map[string]string{strconv.Itoa(invalid.SubjectID): invalid.Reason})
	case errors.As(err, &dup):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrDuplicateSubject,
			map[string]string{strconv.Itoa(dup.SubjectID): "subject appears more than once"})
	case errors.Is(err, grading.ErrEmptyInput):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyInput)
	case errors.Is(err, service.ErrNoMarksEntered):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoMarksEntered)
	case errors.Is(err, service.ErrStudentNotInExamClass):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrStudentNotInExam)

	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrStudentRequired):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"student_id": "student_id is required for student accounts"})

	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrExamNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrMarkSheetNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrCannotDeleteSelf):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrReferenced):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)

	default:
		internalError(c, err)
	}
}

// internalError records err on the context for the access log and answers 500.
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// optionalClassID reads ?class_id=, reporting false after writing a 400 when
// it is present but malformed.
func optionalClassID(c *gin.Context) (*int, bool) {
	raw := c.Query("class_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"class_id": "class_id must be a positive integer"})
		return nil, false
	}
	return &id, true
}

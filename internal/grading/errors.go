package grading

import (
	"errors"
	"fmt"
)

// Validation errors. InvalidMarkError and DuplicateSubjectError match these
// with errors.Is.
var (
	ErrEmptyInput       = errors.New("at least one subject mark is required")
	ErrInvalidMark      = errors.New("invalid mark")
	ErrDuplicateSubject = errors.New("duplicate subject")
)

// InvalidMarkError reports the subject whose marks are out of range.
type InvalidMarkError struct {
	SubjectID int
	Reason    string
}

func (e *InvalidMarkError) Error() string {
	return fmt.Sprintf("invalid mark for subject %d: %s", e.SubjectID, e.Reason)
}

func (e *InvalidMarkError) Is(target error) bool { return target == ErrInvalidMark }

// DuplicateSubjectError reports a subject that appears more than once.
type DuplicateSubjectError struct {
	SubjectID int
}

func (e *DuplicateSubjectError) Error() string {
	return fmt.Sprintf("subject %d appears more than once", e.SubjectID)
}

func (e *DuplicateSubjectError) Is(target error) bool { return target == ErrDuplicateSubject }

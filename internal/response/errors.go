package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrNotOwnRecord     ErrCode = "NOT_OWN_RECORD"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Marks ─────────────────────────────────────────────────────────
	ErrEmptyInput       ErrCode = "EMPTY_INPUT"
	ErrInvalidMark      ErrCode = "INVALID_MARK"
	ErrDuplicateSubject ErrCode = "DUPLICATE_SUBJECT"
	ErrNoMarksEntered   ErrCode = "NO_MARKS_ENTERED"
	ErrStudentNotInExam ErrCode = "STUDENT_NOT_IN_EXAM_CLASS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrTokenRevoked:
		return "This session has been logged out. Please sign in again."

	case ErrPermissionDenied:
		return "You do not have permission to perform this action."
	case ErrNotOwnRecord:
		return "You can only view your own results."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "This record is still referenced by other data and cannot be deleted."

	case ErrEmptyInput:
		return "Enter marks for at least one subject."
	case ErrInvalidMark:
		return "A mark is outside the allowed range for its subject."
	case ErrDuplicateSubject:
		return "A subject was entered more than once."
	case ErrNoMarksEntered:
		return "Please enter at least one mark."
	case ErrStudentNotInExam:
		return "The student is not enrolled in the exam's class."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}

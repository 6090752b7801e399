package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrUserAccessOnly   ErrCode = "USER_ACCESS_ONLY"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidFilter  ErrCode = "INVALID_FILTER"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Sessions & grading ────────────────────────────────────────────
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"
	ErrNoAnswers        ErrCode = "NO_ANSWERS"
	ErrSessionFinished  ErrCode = "SESSION_FINISHED"
	ErrAnswerKeyInvalid ErrCode = "ANSWER_KEY_INVALID"

	// ─── Certificates ──────────────────────────────────────────────────
	ErrCertInvalidFormat ErrCode = "CERT_INVALID_FORMAT"
	ErrCertNotFound      ErrCode = "CERT_NOT_FOUND"
	ErrScoreTooLow       ErrCode = "SCORE_TOO_LOW"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// errMessages maps error codes to the user-facing message clients display.
// Storage-layer error details are never surfaced here.
var errMessages = map[ErrCode]string{
	ErrInvalidCredentials: "Email or password is incorrect.",
	ErrEmailTaken:         "An account with this email already exists.",
	ErrSessionInvalidated: "Your session has ended. Please sign in again.",
	ErrTokenRequired:      "An authentication token is required.",
	ErrTokenInvalid:       "The authentication token is invalid.",
	ErrTokenExpired:       "The authentication token has expired.",

	ErrForbidden:        "You do not have access to this resource.",
	ErrPermissionDenied: "Permission denied.",
	ErrUserAccessOnly:   "This resource is restricted to candidates.",
	ErrAdminAccessOnly:  "This resource is restricted to administrators.",

	ErrValidation:     "Validation failed. Please check your input.",
	ErrInvalidID:      "Invalid ID format.",
	ErrInvalidPayload: "Invalid request payload.",
	ErrInvalidFilter:  "Unknown category, question type or difficulty.",

	ErrNotFound: "Resource not found.",
	ErrConflict: "Resource already exists.",

	ErrNoQuestions:      "No questions match the requested set.",
	ErrNoAnswers:        "No answered questions to grade.",
	ErrSessionFinished:  "This session has already been submitted.",
	ErrAnswerKeyInvalid: "The correct answer must match one of the options.",

	ErrCertInvalidFormat: "The certificate number is malformed.",
	ErrCertNotFound:      "No completed attempt matches this certificate number.",
	ErrScoreTooLow:       "The attempt score is below the certificate threshold.",

	ErrRateLimitExceeded: "Too many requests. Please try again later.",

	ErrInternal: "An internal server error occurred.",
}

// GetMessage returns a short human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	if msg, ok := errMessages[code]; ok {
		return msg
	}
	return "An unexpected error occurred."
}

package errors

import "fmt"

// Error codes
const (
	ErrCodeMissingCredential  = "MISSING_CREDENTIAL"
	ErrCodeMissingIdentity    = "MISSING_IDENTITY"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeAuthRejected       = "AUTH_REJECTED"
	ErrCodeProfileUpdate      = "PROFILE_UPDATE_FAILED"
	ErrCodeAward              = "AWARD_FAILED"
	ErrCodeInvalidQuestions   = "INVALID_QUESTION_FORMAT"
	ErrCodeHTTP               = "HTTP_ERROR"
	ErrCodeScriptLoad         = "SCRIPT_LOAD_FAILED"
	ErrCodeAllCandidates      = "ALL_CANDIDATES_FAILED"
	ErrCodeMediaAccess        = "MEDIA_ACCESS_FAILED"
	ErrCodeValidation         = "VALIDATION_ERROR"
)

// AppError represents an application error with an error code and, for
// gateway failures, the HTTP status of the remote response.
type AppError struct {
	Code    string // Error code (e.g., "AUTH_REJECTED", "HTTP_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code of the remote response, 0 if not applicable
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code so errors.Is works against sentinel instances.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// CodeOf returns the application error code of err, or "" for plain errors.
func CodeOf(err error) string {
	if e, ok := err.(*AppError); ok {
		return e.Code
	}
	return ""
}

// NewMissingCredential signals that no signed Telegram init payload was found.
func NewMissingCredential() *AppError {
	return &AppError{
		Code:    ErrCodeMissingCredential,
		Message: "no Telegram init data found; open the app through Telegram or set a debug credential",
	}
}

// NewMissingIdentity signals that an operation requires a logged-in identity.
func NewMissingIdentity() *AppError {
	return &AppError{
		Code:    ErrCodeMissingIdentity,
		Message: "not logged in",
	}
}

// NewServiceUnavailable wraps a 5xx auth response into a friendly message.
func NewServiceUnavailable(status int) *AppError {
	return &AppError{
		Code:    ErrCodeServiceUnavailable,
		Message: "the event service is temporarily unavailable, please try again later",
		Status:  status,
	}
}

// NewAuthRejected passes the server's own message through verbatim.
func NewAuthRejected(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("authorization failed (%d)", status)
	}
	return &AppError{
		Code:    ErrCodeAuthRejected,
		Message: message,
		Status:  status,
	}
}

// NewProfileUpdateError creates a PROFILE_UPDATE_FAILED error.
func NewProfileUpdateError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeProfileUpdate,
		Message: "failed to update profile",
		Err:     err,
	}
}

// NewAwardError creates an AWARD_FAILED error.
func NewAwardError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeAward,
		Message: "failed to award coins",
		Err:     err,
	}
}

// NewInvalidQuestionFormat signals a malformed quiz questions response.
func NewInvalidQuestionFormat() *AppError {
	return &AppError{
		Code:    ErrCodeInvalidQuestions,
		Message: "quiz questions response is not a list",
	}
}

// NewHTTPError creates a generic gateway error from a non-2xx response.
// message is the remote body's "message" field when present.
func NewHTTPError(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	return &AppError{
		Code:    ErrCodeHTTP,
		Message: message,
		Status:  status,
	}
}

// NewScriptLoadError creates a SCRIPT_LOAD_FAILED error for one URL.
func NewScriptLoadError(url string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeScriptLoad,
		Message: fmt.Sprintf("failed to load %s", url),
		Err:     err,
	}
}

// NewAllCandidatesFailed wraps the last error after an exhausted fallback chain.
func NewAllCandidatesFailed(last error) *AppError {
	return &AppError{
		Code:    ErrCodeAllCandidates,
		Message: "failed to load any of the provided URLs",
		Err:     last,
	}
}

// NewMediaAccessError creates a MEDIA_ACCESS_FAILED error.
func NewMediaAccessError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeMediaAccess,
		Message: "camera or microphone is not accessible",
		Err:     err,
	}
}

// NewValidationError creates a VALIDATION_ERROR for a named field.
func NewValidationError(field, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
	}
}

package apperror

// Client codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeStaleSnapshot = "STALE_SNAPSHOT"
	CodeInvalidState  = "INVALID_STATE"
	CodeTooMany       = "TOO_MANY_REQUESTS"
)

const CodeInternalError = "INTERNAL_ERROR"

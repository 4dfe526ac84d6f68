package apperror

import "net/http"

var (
	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	// ErrUnauthenticated is returned when a route behind the auth middleware
	// runs without a usable user id.
	ErrUnauthenticated = New(
		CodeUnauthorized,
		"missing or invalid user context",
		http.StatusUnauthorized,
	)

	ErrTooManyRequests = New(
		CodeTooMany,
		"Too many requests",
		http.StatusTooManyRequests,
	)
)

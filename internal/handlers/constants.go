package handlers

const (
	CSRFHeaderName  = "X-CSRF-Token"
	RequestIDHeader = "X-Request-ID"

	// maxBodyBytes bounds every JSON request body
	maxBodyBytes = 16 << 10

	ErrInvalidJSON         = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInvalidCSRF         = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
)

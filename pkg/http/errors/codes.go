package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Generation errors
	ErrCodeGenerationFailed = "generation_failed"
	ErrCodeEnqueueFailed    = "enqueue_failed"

	// Upstream errors
	ErrCodeCatalogUnavailable   = "catalog_unavailable"
	ErrCodeSuggesterUnavailable = "suggester_unavailable"
	ErrCodeUpstreamError        = "upstream_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeNotFound           = "not_found"
)

package notion

import "fmt"

// APIError is a non-2xx response from the remote service, carrying the
// remote status code, error code and message verbatim.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion API error (%d): %s (%s)", e.StatusCode, e.Message, e.Code)
}

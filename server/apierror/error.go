// Package apierror maps the gateway's error taxonomy onto HTTP
// responses.
package apierror

import (
	"errors"
	"net/http"

	"github.com/notionsql/notionsql/pkg/notion"
	"github.com/notionsql/notionsql/pkg/schema"
	"github.com/notionsql/notionsql/pkg/statement"
	"github.com/notionsql/notionsql/pkg/translate"
)

// Error classes surfaced to HTTP clients.
const (
	ClassParse       = "parse_error"
	ClassSchema      = "schema_error"
	ClassTranslation = "translation_error"
	ClassRemote      = "remote_api_error"
	ClassInternal    = "internal_error"
)

// GatewayError is the unified HTTP-facing error shape.
type GatewayError struct {
	Status  int    `json:"-"`
	Class   string `json:"class"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return e.Message
}

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Success bool          `json:"success"`
	Error   *GatewayError `json:"error"`
}

// ToResponse wraps the error for serialization.
func (e *GatewayError) ToResponse() *ErrorResponse {
	return &ErrorResponse{Success: false, Error: e}
}

// FromError classifies err into a GatewayError. Parse and translation
// failures are the client's fault; unknown tables and properties are
// not-found; remote failures surface the remote status, code and
// message verbatim behind a bad-gateway status.
func FromError(err error) *GatewayError {
	if err == nil {
		return nil
	}

	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}

	var unsupportedStmt *statement.UnsupportedStatementError
	var malformedStmt *statement.MalformedStatementError
	var unsupportedExpr *statement.UnsupportedExpressionError
	if errors.As(err, &unsupportedStmt) || errors.As(err, &malformedStmt) || errors.As(err, &unsupportedExpr) {
		return &GatewayError{Status: http.StatusBadRequest, Class: ClassParse, Message: err.Error()}
	}

	var unknownTable *schema.UnknownTableError
	if errors.As(err, &unknownTable) {
		return &GatewayError{Status: http.StatusNotFound, Class: ClassSchema, Message: err.Error()}
	}

	var unknownProperty *translate.UnknownPropertyError
	if errors.As(err, &unknownProperty) {
		return &GatewayError{Status: http.StatusNotFound, Class: ClassSchema, Message: err.Error()}
	}

	var unsupportedOp *translate.UnsupportedOperatorError
	var configErr *translate.ConfigError
	var translationErr *translate.TranslationError
	if errors.As(err, &unsupportedOp) || errors.As(err, &configErr) || errors.As(err, &translationErr) {
		return &GatewayError{Status: http.StatusBadRequest, Class: ClassTranslation, Message: err.Error()}
	}

	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		return &GatewayError{
			Status:  http.StatusBadGateway,
			Class:   ClassRemote,
			Code:    apiErr.Code,
			Message: apiErr.Message,
		}
	}

	return &GatewayError{Status: http.StatusInternalServerError, Class: ClassInternal, Message: err.Error()}
}

package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Graph-shaped error body. Every 4xx/5xx response carries exactly this
// structure, matching what the live vendor endpoint returns.
type GraphErrorBody struct {
	Error GraphError `json:"error"`
}

type GraphError struct {
	Message      string      `json:"message"`
	Type         string      `json:"type"`
	Code         int         `json:"code"`
	ErrorSubcode int         `json:"error_subcode,omitempty"`
	ErrorData    interface{} `json:"error_data,omitempty"`
}

// Vendor error type strings
const (
	TypeUnsupportedVersion = "UnsupportedVersion"
	TypeOAuthException     = "OAuthException"
	TypeInvalidParameter   = "GraphMethodException"
	TypeInternal           = "GraphInternalException"
)

// Vendor numeric codes; 100 is the generic invalid-parameter code the real
// API uses for both bad versions and unknown object IDs.
const (
	CodeInvalidParameter = 100
	CodeNotFound         = 132001
	CodeInternal         = 131000
)

// HTTPStatusCode maps error codes to appropriate HTTP status codes
func HTTPStatusCode(err error) int {
	switch GetCode(err) {
	case ErrCodeUnsupportedVersion, ErrCodePhoneMismatch,
		ErrCodeInvalidInput, ErrCodeValidationFailed, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ToGraphError converts an application error to the vendor body shape.
// Internal details never leak: anything that is not an AppError renders as
// a generic internal error.
func ToGraphError(err error) GraphErrorBody {
	appErr, ok := err.(*AppError)
	if !ok {
		return GraphErrorBody{Error: GraphError{
			Message: "An internal error occurred",
			Type:    TypeInternal,
			Code:    CodeInternal,
		}}
	}

	ge := GraphError{Message: GetUserMessage(appErr)}
	switch appErr.Code {
	case ErrCodeUnsupportedVersion:
		ge.Type = TypeUnsupportedVersion
		ge.Code = CodeInvalidParameter
	case ErrCodePhoneMismatch:
		ge.Type = TypeOAuthException
		ge.Code = CodeInvalidParameter
		ge.ErrorSubcode = 33
	case ErrCodeValidationFailed, ErrCodeInvalidInput, ErrCodeInvalidConfig:
		ge.Type = TypeInvalidParameter
		ge.Code = CodeInvalidParameter
		if field, ok := appErr.Context["field"]; ok {
			ge.ErrorData = map[string]interface{}{"details": fmt.Sprintf("invalid field: %v", field)}
		}
	case ErrCodeNotFound:
		ge.Type = TypeInvalidParameter
		ge.Code = CodeNotFound
	default:
		ge.Message = "An internal error occurred"
		ge.Type = TypeInternal
		ge.Code = CodeInternal
	}
	return GraphErrorBody{Error: ge}
}

// WriteError renders err as a Graph-shaped JSON response.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode(err))
	_ = json.NewEncoder(w).Encode(ToGraphError(err))
}

// NewUnsupportedVersionError builds the fixed protocol error for a version
// path segment that does not match the supported constant.
func NewUnsupportedVersionError(got, supported string) *AppError {
	return New(ErrCodeUnsupportedVersion, "unsupported api version").
		WithContext("requested_version", got).
		WithContext("supported_version", supported).
		WithUserMessage(fmt.Sprintf("Unsupported version: %s. Supported version: %s", got, supported))
}

// NewPhoneMismatchError builds the OAuthException-shaped protocol error for
// a phone number ID that does not match the configured identity.
func NewPhoneMismatchError(got string) *AppError {
	return New(ErrCodePhoneMismatch, "unknown phone number id").
		WithContext("phone_number_id", got).
		WithUserMessage(fmt.Sprintf("Unsupported post request. Object with ID '%s' does not exist, cannot be loaded due to missing permissions, or does not support this operation", got))
}

package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error codes carried in the "code" field of the error envelope.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeSKUExhausted       = "SKU_EXHAUSTED"
	CodeIdempotentReplay   = "IDEMPOTENT_REPLAY"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

var codeStatus = map[string]int{
	CodeInvalidRequest:     http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeSKUExhausted:       http.StatusConflict,
	CodeIdempotentReplay:   http.StatusConflict,
	CodePayloadTooLarge:    http.StatusRequestEntityTooLarge,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeCatalogUnavailable: http.StatusServiceUnavailable,
	CodeInternal:           http.StatusInternalServerError,
}

// StatusFor returns the HTTP status paired with code. Unknown codes are 500.
func StatusFor(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AppError is an error that knows how it should be rendered to a client.
type AppError struct {
	Code    string
	Message string
	Err     error
	Details any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Status is the HTTP status for the error's code.
func (e *AppError) Status() int { return StatusFor(e.Code) }

// NewAppError wraps err under code with a client-facing message.
func NewAppError(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithDetails attaches structured details and returns e.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// WriteError renders err with the error envelope. Errors that are not
// AppErrors are reported as INTERNAL without leaking their text.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		JSONError(w, CodeInternal, "internal error", nil)
		return
	}
	code := appErr.Code
	if code == "" {
		code = CodeInternal
	}
	message := appErr.Message
	if message == "" {
		message = "internal error"
	}
	details := appErr.Details
	if details == nil {
		var syntaxErr *json.SyntaxError
		if errors.As(appErr.Err, &syntaxErr) {
			details = map[string]any{"offset": syntaxErr.Offset}
		}
	}
	JSONError(w, code, message, details)
}

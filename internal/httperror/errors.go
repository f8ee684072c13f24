package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lexihelp/lexi-server/internal/gemini"
	"github.com/lexihelp/lexi-server/internal/guard"
	"github.com/lexihelp/lexi-server/internal/session"
	"github.com/lexihelp/lexi-server/internal/tts"
)

// ErrorCode identifies an API error class.
type ErrorCode string

const (
	// ErrorCodeInternal is the generic internal error code.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation is the request validation error code.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeInvalidInput is the invalid input error code.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorCodeUnauthorized is the authentication error code.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeHTTPRateLimit is the rate limit error code.
	ErrorCodeHTTPRateLimit ErrorCode = "HTTP_RATE_LIMIT"
	// ErrorCodeLLM is the model backend error code.
	ErrorCodeLLM ErrorCode = "LLM_ERROR"
	// ErrorCodeLLMTimeout is the model timeout error code.
	ErrorCodeLLMTimeout ErrorCode = "LLM_TIMEOUT"
	// ErrorCodeJudge is the word judgement error code.
	ErrorCodeJudge ErrorCode = "JUDGE_ERROR"
	// ErrorCodeSynthesis is the speech synthesis error code.
	ErrorCodeSynthesis ErrorCode = "SYNTHESIS_ERROR"
	// ErrorCodeSession is the session error code.
	ErrorCodeSession ErrorCode = "SESSION_ERROR"
	// ErrorCodeGuardBlocked is the content guard rejection code.
	ErrorCodeGuardBlocked ErrorCode = "GUARD_BLOCKED"
)

// ErrorResponse is the JSON error body returned to clients.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error is the internal standard error type.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// Response converts an error into an HTTP status and response body.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError maps an arbitrary error to the internal error type.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var blocked *guard.BlockedError
	if errors.As(err, &blocked) {
		return NewGuardBlocked(blocked.Score, blocked.Threshold)
	}

	if errors.Is(err, session.ErrSessionNotFound) {
		return NewSessionError("Session not found", http.StatusNotFound)
	}

	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return NewLLMError("Missing Gemini API key", http.StatusServiceUnavailable)
	}

	if errors.Is(err, tts.ErrSynthesisFailed) {
		return NewSynthesisError(err.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewLLMTimeoutError("Model request timed out")
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

// NewInternalError creates an internal server error.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Status:  http.StatusInternalServerError,
		Type:    "InternalError",
		Message: message,
		Details: nil,
	}
}

// NewValidationError creates a request validation error.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ValidationError",
		Message: "Input validation failed",
		Details: validationDetails(err),
	}
}

// NewInvalidInput creates an invalid input error with a caller message.
func NewInvalidInput(message string) *Error {
	return &Error{
		Code:    ErrorCodeInvalidInput,
		Status:  http.StatusBadRequest,
		Type:    "InvalidInputError",
		Message: message,
		Details: nil,
	}
}

// NewUnauthorized creates an authentication error.
func NewUnauthorized(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Type:    "UnauthorizedError",
		Message: "Invalid API key",
		Details: details,
	}
}

// NewRateLimitExceeded creates a rate limit error.
func NewRateLimitExceeded(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeHTTPRateLimit,
		Status:  http.StatusTooManyRequests,
		Type:    "HTTPRateLimitExceededError",
		Message: "Rate limit exceeded",
		Details: details,
	}
}

// NewGuardBlocked creates a content guard rejection error.
func NewGuardBlocked(score float64, threshold float64) *Error {
	return &Error{
		Code:    ErrorCodeGuardBlocked,
		Status:  http.StatusBadRequest,
		Type:    "GuardBlockedError",
		Message: fmt.Sprintf("Input blocked by content guard (score=%.2f, threshold=%.2f)", score, threshold),
		Details: map[string]any{"score": score, "threshold": threshold},
	}
}

// NewSessionError creates a session error with an explicit status.
func NewSessionError(message string, status int) *Error {
	return &Error{
		Code:    ErrorCodeSession,
		Status:  status,
		Type:    "SessionError",
		Message: message,
		Details: nil,
	}
}

// NewJudgeError creates a word judgement error.
func NewJudgeError(message string) *Error {
	return &Error{
		Code:    ErrorCodeJudge,
		Status:  http.StatusBadGateway,
		Type:    "JudgeError",
		Message: message,
		Details: nil,
	}
}

// NewSynthesisError creates a speech synthesis error.
func NewSynthesisError(message string) *Error {
	return &Error{
		Code:    ErrorCodeSynthesis,
		Status:  http.StatusBadGateway,
		Type:    "SynthesisError",
		Message: message,
		Details: nil,
	}
}

// NewLLMTimeoutError creates a model timeout error.
func NewLLMTimeoutError(message string) *Error {
	return &Error{
		Code:    ErrorCodeLLMTimeout,
		Status:  http.StatusGatewayTimeout,
		Type:    "LLMTimeoutError",
		Message: message,
		Details: nil,
	}
}

// NewLLMError creates a model backend error with an explicit status.
func NewLLMError(message string, status int) *Error {
	return &Error{
		Code:    ErrorCodeLLM,
		Status:  status,
		Type:    "LLMError",
		Message: message,
		Details: nil,
	}
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "body",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}

package response

import (
	"errors"
	"net/http"
)

// ErrorResponse is the structured error envelope produced by the generic
// middleware (panic recovery, request timeout). The cluster endpoints use
// their own flat {"error": msg} shape instead; this envelope carries the
// request ID so a 5xx can be correlated with server logs.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code alongside the message.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// Error codes used by the middleware layer.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"
)

// ErrInternalServer is the generic fallback for failures with no more
// specific classification.
var ErrInternalServer = errors.New("internal server error")

// Error writes an ErrorResponse with the given status, code, and message.
func Error(w http.ResponseWriter, statusCode int, code, message, requestID string) {
	JSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, RequestID: requestID},
	})
}

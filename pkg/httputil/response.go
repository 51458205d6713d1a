package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
	"github.com/Reagan-marera/imoflames-sub000/pkg/logger"
	"github.com/Reagan-marera/imoflames-sub000/pkg/validator"
)

// Response is the JSON envelope returned by every storefront endpoint.
// Notices and Redirect carry what the controller asked the UI to show or do
// while handling the request.
type Response struct {
	Data     any            `json:"data,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty"`
	Notices  []Notice       `json:"notices,omitempty"`
	Redirect string         `json:"redirect,omitempty"`
}

// Notice is a message for the notification area.
type Notice struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Kind      string            `json:"kind,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Option decorates a response before it is written.
type Option func(*Response)

// WithNotices attaches notices to the response.
func WithNotices(notices []Notice) Option {
	return func(r *Response) { r.Notices = append(r.Notices, notices...) }
}

// WithRedirect attaches a redirect path to the response.
func WithRedirect(path string) Option {
	return func(r *Response) {
		if path != "" {
			r.Redirect = path
		}
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes data in the envelope with the given options applied.
func WriteData(w http.ResponseWriter, status int, data any, opts ...Option) {
	resp := Response{Data: data}
	for _, opt := range opts {
		opt(&resp)
	}
	WriteJSON(w, status, resp)
}

// WriteError writes an error response. AppErrors keep their code, message and
// reason; everything else is mapped from the sentinel it wraps. Internal
// errors are logged with the request-scoped logger when one is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger, opts ...Option) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	errResp := &ErrorResponse{
		Code:      "INTERNAL_ERROR",
		Message:   "an internal error occurred",
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	}
	if kind := apperrors.KindOf(err); kind != apperrors.KindUnknown {
		errResp.Kind = kind.String()
	}

	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.AppError
	var valErr *validator.ValidationError
	switch {
	case errors.As(err, &appErr):
		errResp.Code = appErr.Code
		errResp.Message = appErr.Message
		errResp.Reason = appErr.Reason
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
		errResp.Code = "VALIDATION_ERROR"
		errResp.Message = "request validation failed"
		errResp.Fields = valErr.Fields()
	case errors.Is(err, apperrors.ErrNotFound):
		errResp.Code = "NOT_FOUND"
		errResp.Message = "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		errResp.Code = "INVALID_INPUT"
		errResp.Message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	resp := Response{Error: errResp}
	for _, opt := range opts {
		opt(&resp)
	}
	WriteJSON(w, status, resp)
}

// ParseID parses a numeric path parameter. On failure it writes a 400
// response and returns false so the caller can return early.
func ParseID(w http.ResponseWriter, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "invalid id: " + param,
			},
		})
		return 0, false
	}
	return id, true
}

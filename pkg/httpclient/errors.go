package httpclient

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
)

const maxErrorBody = 1 << 20

// errorBody covers both error shapes the storefront API produces:
// {"message": "...", "reason": "..."} and {"error": {"code": "...", "message": "..."}}.
type errorBody struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx response and turns it into a
// server-rejected AppError. The body is consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apperrors.Transport(err)
	}
	return RejectedFromBody(resp.StatusCode, body)
}

// RejectedFromBody builds the AppError for a non-success status and its raw
// body. A message is only taken from a structured body; anything else leaves
// it empty so callers fall back to their own text.
func RejectedFromBody(status int, body []byte) *apperrors.AppError {
	var parsed errorBody
	if len(body) == 0 || json.Unmarshal(body, &parsed) != nil {
		return apperrors.Rejected(status, "", "", "")
	}

	if parsed.Error != nil {
		return apperrors.Rejected(status, parsed.Error.Code, strings.TrimSpace(parsed.Error.Message), parsed.Reason)
	}
	return apperrors.Rejected(status, "", strings.TrimSpace(parsed.Message), parsed.Reason)
}

// ClassifyError maps an error returned by Client.Do or CircuitBreakerClient.Do
// into the storefront error taxonomy.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return RejectedFromBody(statusErr.StatusCode, statusErr.Body)
	}

	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &apperrors.AppError{
			Code:    "SERVICE_UNAVAILABLE",
			Message: "the storefront API is temporarily unavailable",
			Status:  http.StatusServiceUnavailable,
			Err:     errors.Join(apperrors.ErrTransport, apperrors.ErrServiceUnavail, err),
		}
	}

	return apperrors.Transport(err)
}

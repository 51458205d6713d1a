// Package rest implements the storefront data source over the storefront's
// JSON API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Reagan-marera/imoflames-sub000/internal/datasource"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
	"github.com/Reagan-marera/imoflames-sub000/pkg/httpclient"
	"github.com/Reagan-marera/imoflames-sub000/pkg/tracing"
)

// HTTPDoer abstracts the HTTP transport.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the storefront API.
type Client struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
	tracer  trace.Tracer
}

var _ datasource.DataSource = (*Client)(nil)

// New creates a client for the API rooted at baseURL.
func New(baseURL string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
		tracer:  tracing.Tracer("storefront/datasource"),
	}
}

// newRequest builds a request against the API with the bearer token attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes req and decodes a successful JSON body into out when out is
// non-nil. Non-2xx responses become server-rejected errors; anything that
// prevented a response becomes a transport error.
func (c *Client) do(ctx context.Context, op string, req *http.Request, out any) error {
	ctx, span := c.tracer.Start(ctx, "datasource."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		err = httpclient.ClassifyError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := httpclient.ParseResponseError(resp)
		span.SetStatus(codes.Error, resp.Status)
		c.logger.WarnContext(ctx, "storefront API rejected request",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, apperrors.Transport(err))
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in any, token string) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body), token)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, op, req, nil)
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func query(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

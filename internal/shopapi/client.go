// Package shopapi is the typed HTTP client for the remote shop API that owns
// the catalog, carts, accounts and payments.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL  string
	http     *http.Client
	prefixes prefixes
}

type prefixes struct {
	product string
	cart    string
	auth    string
	payment string
}

// New builds a client whose transport is traced and counted.
func New(cfg *config.Upstream) *Client {
	transport := otelhttp.NewTransport(metrics.InstrumentTransport(http.DefaultTransport))

	return NewWithHTTPClient(cfg, &http.Client{Transport: transport, Timeout: cfg.Timeout})
}

func NewWithHTTPClient(cfg *config.Upstream, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		prefixes: prefixes{
			product: cleanPrefix(cfg.ProductPrefix),
			cart:    cleanPrefix(cfg.CartPrefix),
			auth:    cleanPrefix(cfg.AuthPrefix),
			payment: cleanPrefix(cfg.PaymentPrefix),
		},
	}
}

func cleanPrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}

	return "/" + p
}

// BaseURL is the root every request path is joined to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// request is one call to the shop API. body is JSON encoded unless it is an
// io.Reader, in which case contentType must be set.
type request struct {
	method      string
	path        string
	token       string
	body        any
	contentType string
}

func (c *Client) do(ctx context.Context, req request, dest any) error {
	var (
		reader      io.Reader
		contentType = req.contentType
	)

	switch body := req.body.(type) {
	case nil:
	case io.Reader:
		reader = body
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return appErrors.InternalError("Failed to encode request").WithError(err)
		}

		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return appErrors.InternalError("Failed to build request").WithError(err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}

		return appErrors.RemoteCallFailedError("Shop API is unreachable").WithError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(req, resp)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.RemoteCallFailedError("Invalid response from shop API").
			WithDetail(fmt.Sprintf("%s %s", req.method, req.path)).
			WithError(err)
	}

	return nil
}

func statusError(req request, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	_ = json.Unmarshal(raw, &body)

	message := body.Message
	if message == "" {
		message = body.Error
	}

	cause := &StatusError{Method: req.method, Path: req.path, StatusCode: resp.StatusCode, Message: message}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return appErrors.UnauthorizedError("Authentication required").WithDetail(message).WithError(cause)
	case http.StatusForbidden:
		return appErrors.ForbiddenError("Not allowed").WithDetail(message).WithError(cause)
	case http.StatusNotFound:
		return appErrors.NotFoundError("Not found").WithDetail(message).WithError(cause)
	}

	if message == "" {
		message = "Shop API request failed"
	}

	return appErrors.RemoteCallFailedError(message).WithError(cause)
}

// StatusError is a non-2xx answer from the shop API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

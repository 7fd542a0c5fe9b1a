package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/common"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
	"github.com/google/uuid"
)

const DefaultTimeout = 15 * time.Second

type tokenKey struct{}

// WithToken makes requests made with ctx use tok instead of the TokenSource.
func WithToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, tokenKey{}, tok)
}

func (c *Client) tokenFor(ctx context.Context) string {
	if tok, ok := ctx.Value(tokenKey{}).(string); ok {
		return tok
	}
	return c.token()
}

// TokenSource returns the current bearer token, or "" when signed out.
type TokenSource func() string

type Options struct {
	BaseURL string
	Timeout time.Duration
	Token   TokenSource

	// OnUnauthorized runs after an authenticated request was answered with
	// 401 or 403. It must not call back into the Client synchronously.
	OnUnauthorized func(ctx context.Context)

	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client is the REST gateway to the marketplace backend.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          TokenSource
	onUnauthorized func(ctx context.Context)
	log            logging.Logger
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = newHTTPClient(timeout)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	token := opts.Token
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		httpClient:     hc,
		baseURL:        strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		token:          token,
		onUnauthorized: opts.OnUnauthorized,
		log:            log.With("component", "gateway"),
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// SetUnauthorizedHandler replaces the 401/403 hook.
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Do sends one request. A 2xx body is decoded into out when out is non-nil;
// anything else comes back as *Error. Requests are never retried.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	requestID := uuid.NewString()
	ctx = logging.ContextWithRequestID(ctx, requestID)

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, requestID)

	token := c.tokenFor(ctx)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerToken(token))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: ErrServer, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	apiErr := mapStatus(resp)
	if errors.Is(apiErr, ErrUnauthorized) && token != "" && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return apiErr
}

func mapStatus(resp *http.Response) *Error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb)
	msg := strings.TrimSpace(eb.Message)
	if msg == "" {
		msg = strings.TrimSpace(eb.Error)
	}

	var cause error
	if msg != "" {
		cause = errors.New(msg)
	}

	status := resp.StatusCode
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: ErrUnauthorized, Status: status, Err: cause}
	case status == http.StatusNotFound:
		return &Error{Kind: ErrNotFound, Status: status, Err: cause}
	case status >= 500:
		return &Error{Kind: ErrServer, Status: status, Err: cause}
	default:
		// 400, 422 and the remaining 4xx carry a message meant for the user
		return &Error{Kind: ErrValidation, Status: status, Message: msg}
	}
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	// timeouts, refused connections and DNS failures all look the same to the user
	return &Error{Kind: ErrUnavailable, Err: err}
}

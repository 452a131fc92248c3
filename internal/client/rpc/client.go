package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// Response is the decoded {code,msg,body} envelope every backend endpoint
// returns. Body stays raw so each wrapper can decode its own shape.
type Response struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Body json.RawMessage `json:"body"`
}

// Caller is the transport seam the higher client layers depend on. Tests
// substitute scripted implementations.
type Caller interface {
	Call(ctx context.Context, path string, params url.Values) (*Response, error)
}

// ReauthFunc obtains a fresh session token after the backend rejects the
// current one. Returning an error abandons the call.
type ReauthFunc func(ctx context.Context) (string, error)

// Client is the single HTTP boundary of the ordering engine. All requests
// are form-encoded POSTs carrying a bearer token; a 401 triggers one token
// refresh and one replay of the original call.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Reauth  ReauthFunc
	Logger  *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewClient builds a Client against the given base URL. The timeout bounds
// every individual request; per-call deadlines come from the context.
func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Logger:  log,
	}
}

// SetToken installs the session token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently installed session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Call posts the form to path and decodes the envelope. Business failures
// encoded in the envelope are returned as a *Error alongside the envelope
// itself, so callers can still read the code.
func (c *Client) Call(ctx context.Context, path string, params url.Values) (*Response, error) {
	resp, err := c.do(ctx, path, params)
	if err == nil || ErrorKind(err) != KindAuthorization || c.Reauth == nil {
		return resp, err
	}

	token, rerr := c.Reauth(ctx)
	if rerr != nil {
		return nil, &Error{Kind: KindAuthorization, Msg: "session refresh failed", Err: rerr}
	}
	c.SetToken(token)
	return c.do(ctx, path, params)
}

func (c *Client) do(ctx context.Context, path string, params url.Values) (*Response, error) {
	body := strings.NewReader(params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Msg: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	httpResp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Msg: "request failed", Err: err}
	}
	defer httpResp.Body.Close()

	if c.Logger != nil {
		c.Logger.LogAPI(http.MethodPost, path, httpResp.Status, time.Since(start).String())
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		return nil, &Error{Kind: KindAuthorization, Code: httpResp.StatusCode, Msg: "session expired"}
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Msg: "reading response", Err: err}
	}

	var env Response
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &Error{Kind: KindTransport, Msg: "malformed envelope", Err: err}
	}

	if err := envelopeError(&env); err != nil {
		return &env, err
	}
	return &env, nil
}

// envelopeError maps a business failure code onto the error taxonomy.
// CodePending is not a failure; the poller routes on it directly.
func envelopeError(env *Response) error {
	switch env.Code {
	case models.CodeOK, models.CodePending:
		return nil
	case models.CodeConflict:
		return &Error{Kind: KindConflict, Code: env.Code, Msg: env.Msg}
	case models.CodeKitchenBusy:
		return &Error{Kind: KindKitchenBusy, Code: env.Code, Msg: env.Msg}
	case models.CodeBadRequest:
		return &Error{Kind: KindValidation, Code: env.Code, Msg: env.Msg}
	default:
		return &Error{Kind: KindTransport, Code: env.Code, Msg: fmt.Sprintf("unexpected code %d: %s", env.Code, env.Msg)}
	}
}

// Package restclient sends JSON requests to the EcoPulse API, attaching the
// session's bearer token and translating failures into apierror values.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/session"
	"go.uber.org/zap"
)

// Navigator is told to send the user to the login surface after a 401.
type Navigator interface {
	RedirectToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) RedirectToLogin(ctx context.Context) { f(ctx) }

// Options configures a Client.
type Options struct {
	BaseURL string
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	// Timeout of the default client. Zero means none.
	Timeout   time.Duration
	Session   *session.Store
	Navigator Navigator
	Logger    *zap.Logger
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// Client is a JSON client bound to one base URL and session.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session *session.Store
	nav     Navigator
	logger  *zap.Logger
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("restclient: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("restclient: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("restclient: base url %q must be absolute", opts.BaseURL)
	}
	if opts.Session == nil {
		return nil, errors.New("restclient: session store is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		session: opts.Session,
		nav:     opts.Navigator,
		logger:  logger,
	}, nil
}

// Session returns the session store the client reads tokens from.
func (c *Client) Session() *session.Store {
	return c.session
}

// Do sends req and decodes a 2xx JSON body into out (when non-nil).
//
// A 204 leaves out untouched. A 401 clears the session, redirects to login
// and returns an AuthExpired error. Other non-2xx responses return an
// *apierror.Error. Transport errors are returned unmodified.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := c.newRequest(ctx, method, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("reading api response", zap.String("path", req.Path), zap.Error(err))
		return err
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.evict(ctx, method, req.Path)
		return apierror.AuthExpired()
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		apiErr := apierror.FromResponse(resp.StatusCode, statusText(resp), body)
		c.logger.Warn("api request rejected",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode),
			zap.Stringer("kind", apiErr.Kind))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("decoding api response", zap.String("path", req.Path), zap.Error(err))
		return &apierror.Error{
			Kind:    apierror.KindServer,
			Status:  resp.StatusCode,
			Message: "The server sent a response EcoPulse couldn't read.",
		}
	}
	return nil
}

// Get is shorthand for a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post is shorthand for a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put is shorthand for a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete is shorthand for a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

func (c *Client) newRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil && method != http.MethodGet && method != http.MethodHead {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token := c.session.Token(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

func (c *Client) evict(ctx context.Context, method, path string) {
	c.logger.Info("session expired, logging out",
		zap.String("method", method),
		zap.String("path", path))
	if err := c.session.ClearAuth(ctx); err != nil {
		c.logger.Error("clearing expired session", zap.Error(err))
	}
	if c.nav != nil {
		c.nav.RedirectToLogin(ctx)
	}
}

func statusText(resp *http.Response) string {
	// resp.Status is "404 Not Found"; keep only the text.
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

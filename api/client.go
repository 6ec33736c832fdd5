// Package api implements the client side of the backend contract: project
// and file storage, run configuration, code execution, and auth. All methods
// take a context and return explicit errors; the TUI layer decides how to
// surface them.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ErrUnauthorized is returned when the backend rejects the bearer token. The
// caller must tear down the session; the request is never retried.
var ErrUnauthorized = errors.New("unauthorized")

// RequestError is a backend-reported failure: either a non-2xx status or a
// success=false envelope. Its message is surfaced to the user verbatim.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed (%d)", e.Status)
}

// envelope is the backend's JSON response shape. Data varies per endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client talks to the backend over HTTP with a bearer token. Transient
// failures (502/503/504, timeouts, connection errors) are retried exactly
// once before surfacing.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

// SetToken installs the bearer token used for authenticated calls. An empty
// token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues one request, retrying once on transient failures. body, when
// non-nil, is marshalled as JSON. The caller owns the response body.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if retryableNetErr(err) && attempt == 0 {
				continue
			}
			return nil, fmt.Errorf("request %s %s: %w", method, path, err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			c.SetToken("")
			return nil, ErrUnauthorized
		case retryableStatus(resp.StatusCode) && attempt == 0:
			resp.Body.Close()
			lastErr = &RequestError{Status: resp.StatusCode}
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func retryableNetErr(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// doJSON issues a request and decodes the success envelope, turning backend
// failure flags into RequestError.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*envelope, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if !env.Success {
		return nil, &RequestError{Status: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

func decodeString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func decodeStrings(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Login authenticates and returns a bearer token, which is also installed on
// the client. Login is never retried and never carries a stale token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	token, err := decodeString(env.Data)
	if err != nil {
		return "", fmt.Errorf("decode login token: %w", err)
	}
	c.SetToken(token)
	return token, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"password": password,
	})
	return err
}

// Projects lists the user's project names.
func (c *Client) Projects(ctx context.Context) ([]string, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}
	return decodeStrings(env.Data)
}

// CreateProject creates an empty project.
func (c *Client) CreateProject(ctx context.Context, name string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/projects", map[string]string{"name": name})
	return err
}

// DeleteProject removes a project and all its files.
func (c *Client) DeleteProject(ctx context.Context, name string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/projects/"+url.PathEscape(name), nil)
	return err
}

// RunConfig fetches the project's designated main file, or "" when none is
// set.
func (c *Client) RunConfig(ctx context.Context, project string) (string, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/projects/"+url.PathEscape(project)+"/run-config", nil)
	if err != nil {
		return "", err
	}
	return decodeString(env.Data)
}

// SetRunConfig persists the project's main file. An empty mainFile clears it.
func (c *Client) SetRunConfig(ctx context.Context, project, mainFile string) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/projects/"+url.PathEscape(project)+"/run-config",
		map[string]string{"mainFile": mainFile})
	return err
}

// Files lists the project's file paths.
func (c *Client) Files(ctx context.Context, project string) ([]string, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/projects/"+url.PathEscape(project)+"/files", nil)
	if err != nil {
		return nil, err
	}
	return decodeStrings(env.Data)
}

// ReadFile fetches a file's raw text content.
func (c *Client) ReadFile(ctx context.Context, project, filename string) (string, error) {
	path := "/projects/" + url.PathEscape(project) + "/files/read?filename=" + url.QueryEscape(filename)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RequestError{Status: resp.StatusCode, Message: string(data)}
	}
	return string(data), nil
}

// SaveFile writes a file's content. Also used with empty content to create a
// new file.
func (c *Client) SaveFile(ctx context.Context, project, filename, content string) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/projects/"+url.PathEscape(project)+"/files",
		map[string]string{"filename": filename, "content": content})
	return err
}

// DeleteFile removes a file.
func (c *Client) DeleteFile(ctx context.Context, project, filename string) error {
	path := "/projects/" + url.PathEscape(project) + "/files?filename=" + url.QueryEscape(filename)
	_, err := c.doJSON(ctx, http.MethodDelete, path, nil)
	return err
}

// Execute runs a file in the backend sandbox with the given stdin and returns
// its output.
func (c *Client) Execute(ctx context.Context, project, filename, input string) (string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/projects/"+url.PathEscape(project)+"/execute",
		map[string]string{"filename": filename, "input": input})
	if err != nil {
		return "", err
	}
	return decodeString(env.Data)
}

// Package httpapi implements service.Service against a running todod server.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"todod/internal/service"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 10 * time.Second

// Client talks to the task HTTP API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client for baseURL (e.g. http://127.0.0.1:8080).
func New(baseURL string) (*Client, error) {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: DefaultTimeout})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid server address %q: want http://host:port", baseURL)
	}
	return &Client{BaseURL: u.String(), HTTP: httpClient}, nil
}

// ListTasks calls GET /tasks.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError(status, body)
	}
	var tasks []service.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask calls POST /tasks.
// A 400 response is returned as a *service.ValidationError.
func (c *Client) CreateTask(ctx context.Context, title, priority string) (service.Task, error) {
	payload, err := json.Marshal(map[string]string{"title": title, "priority": priority})
	if err != nil {
		return service.Task{}, err
	}
	status, body, err := c.do(ctx, http.MethodPost, "/tasks", payload)
	if err != nil {
		return service.Task{}, err
	}

	switch status {
	case http.StatusOK:
		var task service.Task
		if err := json.Unmarshal(body, &task); err != nil {
			return service.Task{}, fmt.Errorf("decode task: %w", err)
		}
		return task, nil
	case http.StatusBadRequest:
		var e struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
			return service.Task{}, statusError(status, body)
		}
		return service.Task{}, &service.ValidationError{Msg: e.Error}
	default:
		return service.Task{}, statusError(status, body)
	}
}

// CompleteTask calls POST /tasks/{id}/complete.
func (c *Client) CompleteTask(ctx context.Context, id int) (bool, error) {
	if id < 0 {
		return false, nil
	}
	status, body, err := c.do(ctx, http.MethodPost, "/tasks/"+strconv.Itoa(id)+"/complete", nil)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, statusError(status, body)
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	endpoint, err := c.resolve(path)
	if err != nil {
		return 0, nil, err
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) resolve(path string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(rel).String(), nil
}

func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("http %d", status)
	}
	return fmt.Errorf("http %d: %s", status, msg)
}

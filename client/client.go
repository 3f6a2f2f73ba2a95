// Package client is the data layer consumed by the presentation surfaces: a
// typed REST client plus board/table/list views sharing one tag-invalidated
// cache.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/projectpulse/backend/domain"
)

// envelope mirrors transport.Envelope with a raw data payload so responses
// can be decoded into typed values.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client talks to the REST API.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client. Tests use this to
// dial an in-memory listener.
func WithHTTPClient(httpClient *fasthttp.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &fasthttp.Client{},
		baseURL: baseURL,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) TasksByProject(ctx context.Context, projectID int) ([]domain.Task, error) {
	var tasks []domain.Task
	path := fmt.Sprintf("/api/tasks?projectId=%d", projectID)
	if err := c.do(ctx, fasthttp.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) TasksByUser(ctx context.Context, userID int) ([]domain.Task, error) {
	var tasks []domain.Task
	path := fmt.Sprintf("/api/tasks/user/%d", userID)
	if err := c.do(ctx, fasthttp.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	var created domain.Task
	if err := c.do(ctx, fasthttp.MethodPost, "/api/tasks", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTaskStatus is the single status-mutation path shared by every
// surface.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int, status domain.Status) (*domain.Task, error) {
	var updated domain.Task
	path := fmt.Sprintf("/api/tasks/%d/status", taskID)
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, fasthttp.MethodPatch, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) AddComment(ctx context.Context, taskID int, userSub, text string) (*domain.Comment, error) {
	var comment domain.Comment
	path := fmt.Sprintf("/api/tasks/%d/comments", taskID)
	body := map[string]string{"userSub": userSub, "text": text}
	if err := c.do(ctx, fasthttp.MethodPost, path, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) TaskComments(ctx context.Context, taskID int) ([]domain.Comment, error) {
	var comments []domain.Comment
	path := fmt.Sprintf("/api/tasks/%d/comments", taskID)
	if err := c.do(ctx, fasthttp.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) Search(ctx context.Context, query string) (*domain.SearchResults, error) {
	var results domain.SearchResults
	path := "/api/search?query=" + url.QueryEscape(query)
	if err := c.do(ctx, fasthttp.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "request failed", err)
	}

	if status := resp.StatusCode(); status >= http.StatusBadRequest {
		// Error bodies are best-effort JSON; an intermediary may answer
		// with an HTML page instead of the envelope.
		message := http.StatusText(status)
		var env envelope
		if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Message != "" {
			message = env.Message
		}
		return domain.NewError(codeForStatus(status), message)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "malformed response", err)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "malformed response data", err)
		}
	}
	return nil
}

func codeForStatus(status int) domain.ErrorCode {
	switch status {
	case http.StatusNotFound:
		return domain.ErrCodeNotFound
	case http.StatusBadRequest:
		return domain.ErrCodeInvalid
	case http.StatusUnauthorized:
		return domain.ErrCodeUnauthorized
	case http.StatusServiceUnavailable:
		return domain.ErrCodeUnavailable
	default:
		return domain.ErrCodeInternal
	}
}

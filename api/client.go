// Package api is the HTTP client for the /api/tasks collection.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	internalstrings "github.com/amonks/tareas/internal/strings"
	"github.com/amonks/tareas/task"
)

// DefaultBaseURL is used when no backend address is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// CollectionPath is the path of the task collection on the backend.
const CollectionPath = "/api/tasks"

// RequestIDHeader carries a per-request identifier for backend logs.
const RequestIDHeader = "X-Request-ID"

// Options configures a Client.
type Options struct {
	// BaseURL is the backend address, with or without a scheme.
	BaseURL string

	// HTTPClient overrides the default http.Client.
	HTTPClient *http.Client

	// Timeout applies to the default http.Client. Zero means no timeout.
	Timeout time.Duration

	// Logger receives one entry per request. Nil disables logging.
	Logger *zap.Logger
}

// Client calls the task collection endpoints.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the configured backend.
func NewClient(opts Options) *Client {
	baseURL := internalstrings.TrimTrailingSlash(strings.TrimSpace(opts.BaseURL))
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: baseURL, client: client, logger: logger}
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches one page of tasks matching params.
func (c *Client) List(ctx context.Context, params ListParams) (*task.Page, error) {
	var body struct {
		Items      *[]task.Task     `json:"items"`
		Pagination *task.Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, CollectionPath, params.Encode(), nil, &body, MessageListFailed); err != nil {
		return nil, err
	}
	if body.Items == nil || body.Pagination == nil {
		return nil, fmt.Errorf("%w: missing items or pagination", ErrMalformedResponse)
	}
	return &task.Page{Items: *body.Items, Pagination: *body.Pagination}, nil
}

// Get fetches a single task. A missing task yields an error matching ErrNotFound.
func (c *Client) Get(ctx context.Context, id int) (*task.Task, error) {
	var item task.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), "", nil, &item, MessageGetFailed); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a new task and returns it with its server-assigned ID.
func (c *Client) Create(ctx context.Context, payload task.Payload) (*task.Task, error) {
	var item task.Task
	if err := c.do(ctx, http.MethodPost, CollectionPath, "", payload, &item, MessageCreateFailed); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update replaces the editable fields of an existing task.
func (c *Client) Update(ctx context.Context, id int, payload task.Payload) (*task.Task, error) {
	var item task.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), "", payload, &item, MessageUpdateFailed); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a task. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), "", nil, nil, MessageDeleteFailed)
}

func taskPath(id int) string {
	return CollectionPath + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string, payload any, dest any, fallback string) error {
	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		c.logger.Warn("task api request failed", append(fields, zap.Error(err))...)
		return &RequestFailedError{Method: method, URL: path, Message: fallback, Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("task api request", append(fields, zap.Int("status", resp.StatusCode))...)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp, method, path, fallback)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func readErrorResponse(resp *http.Response, method, path, fallback string) error {
	failure := &RequestFailedError{
		Method:  method,
		URL:     path,
		Status:  resp.StatusCode,
		Message: fallback,
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if detail, ok := payload["detail"].(string); ok && !internalstrings.IsBlank(detail) {
			failure.Message = detail
		}
	}
	return failure
}

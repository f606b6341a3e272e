// Package client is a typed facade over the kanban API. It depends on the
// wire contract only and attaches the bearer token to every request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIError is the decoded error envelope of a failed request.
type APIError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Board struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	CreatorName string    `json:"creator_name"`
}

type Column struct {
	ID         int64     `json:"id"`
	BoardID    int64     `json:"board_id"`
	Title      string    `json:"title"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	TasksCount int       `json:"tasks_count"`
}

type Task struct {
	ID          int64     `json:"id"`
	ColumnID    int64     `json:"column_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    string    `json:"priority"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatorName string    `json:"creator_name"`
}

type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type TaskList struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

type Health struct {
	OK bool   `json:"ok"`
	TS string `json:"ts"`
}

// Client issues typed requests against the API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken stores the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses decode the error envelope into *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error APIError `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		apiErr := envelope.Error
		apiErr.Status = resp.StatusCode
		return &apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

func (c *Client) GetBoard(ctx context.Context, boardID int64) (*Board, error) {
	var board Board
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/boards/%d", boardID), nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) ListColumns(ctx context.Context, boardID int64) ([]Column, error) {
	var columns []Column
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/boards/%d/columns", boardID), nil, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func (c *Client) CreateColumn(ctx context.Context, boardID int64, title string, position int) (*Column, error) {
	var column Column
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/boards/%d/columns", boardID), map[string]any{
		"title":    title,
		"position": position,
	}, &column)
	if err != nil {
		return nil, err
	}
	return &column, nil
}

// ColumnPatch carries the fields of a partial column update; nil fields are
// omitted from the request.
type ColumnPatch struct {
	Title    *string `json:"title,omitempty"`
	Position *int    `json:"position,omitempty"`
}

func (c *Client) UpdateColumn(ctx context.Context, columnID int64, patch ColumnPatch) (*Column, error) {
	var column Column
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/columns/%d", columnID), patch, &column); err != nil {
		return nil, err
	}
	return &column, nil
}

func (c *Client) DeleteColumn(ctx context.Context, columnID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/columns/%d", columnID), nil, nil)
}

// TaskListOptions narrows a task listing. Zero values are omitted and the
// server defaults apply.
type TaskListOptions struct {
	Search string
	Page   int
	Limit  int
	Sort   string
}

func (o TaskListOptions) query() string {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) ListTasks(ctx context.Context, columnID int64, opts TaskListOptions) (*TaskList, error) {
	var list TaskList
	path := fmt.Sprintf("/tasks/columns/%d/tasks%s", columnID, opts.query())
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// NewTask carries the fields of a task creation request.
type NewTask struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    string  `json:"priority,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, columnID int64, task NewTask) (*Task, error) {
	var created Task
	path := fmt.Sprintf("/tasks/columns/%d/tasks", columnID)
	if err := c.do(ctx, http.MethodPost, path, task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// TaskPatch carries the fields of a partial task update; nil fields are
// omitted. ColumnID moves the task to another column.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	ColumnID    *int64  `json:"column_id,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, taskID int64, patch TaskPatch) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d", taskID), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", taskID), nil, nil)
}

func (c *Client) ListComments(ctx context.Context, taskID int64) ([]Comment, error) {
	var comments []Comment
	path := fmt.Sprintf("/comments/tasks/%d/comments", taskID)
	if err := c.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, taskID int64, content string) (*Comment, error) {
	var comment Comment
	path := fmt.Sprintf("/comments/tasks/%d/comments", taskID)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) GetHealth(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

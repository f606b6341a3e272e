package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"kanban-board/database"
)

// TaskHandler handles task listing, creation, update and deletion.
type TaskHandler struct {
	dataService *database.DataService
}

func NewTaskHandler(dataService *database.DataService) *TaskHandler {
	return &TaskHandler{dataService: dataService}
}

const (
	defaultPage  = 1
	defaultLimit = 10
)

type paginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type taskListResponse struct {
	Tasks      []database.Task    `json:"tasks"`
	Pagination paginationResponse `json:"pagination"`
}

// queryInt parses a positive integer query parameter, falling back to a
// default on anything absent or unparseable.
func queryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// List returns one page of a column's tasks, newest first by the chosen
// sort column, with search and pagination metadata.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	columnID := pathID(r, "columnId")

	opts := database.TaskListOptions{
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page", defaultPage),
		Limit:  queryInt(r, "limit", defaultLimit),
		Sort:   r.URL.Query().Get("sort"),
	}

	tasks, total, err := h.dataService.ListTasks(columnID, opts)
	if err != nil {
		writeInternalError(w, "List tasks error", err)
		return
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit

	writeJSON(w, http.StatusOK, taskListResponse{
		Tasks: tasks,
		Pagination: paginationResponse{
			Page:       opts.Page,
			Limit:      opts.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
}

func (req createTaskRequest) Validate() []FieldError {
	var details []FieldError
	if len(req.Title) < 1 {
		details = append(details, FieldError{Field: "title", Message: "must not be empty"})
	}
	if req.Priority != "" && !database.ValidPriority(req.Priority) {
		details = append(details, FieldError{Field: "priority", Message: "must be one of low, medium, high"})
	}
	return details
}

// Create inserts a task into a column. Priority defaults to medium and the
// creator is always the authenticated user.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	columnID := pathID(r, "columnId")

	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "No token provided")
		return
	}

	var req createTaskRequest
	if !decodeBody(w, r, &req) || !validate(w, req) {
		return
	}

	task, err := h.dataService.CreateTask(columnID, req.Title, req.Description, req.Priority, userID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Column not found")
			return
		}
		writeInternalError(w, "Create task error", err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	ColumnID    *int64  `json:"column_id"`
}

func (req updateTaskRequest) Validate() []FieldError {
	var details []FieldError
	if req.Title != nil && len(*req.Title) < 1 {
		details = append(details, FieldError{Field: "title", Message: "must not be empty"})
	}
	if req.Priority != nil && !database.ValidPriority(*req.Priority) {
		details = append(details, FieldError{Field: "priority", Message: "must be one of low, medium, high"})
	}
	return details
}

// Update applies a partial update to a task, including moving it to another
// column via column_id. updated_at refreshes on every call.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID := pathID(r, "taskId")

	var req updateTaskRequest
	if !decodeBody(w, r, &req) || !validate(w, req) {
		return
	}

	task, err := h.dataService.UpdateTask(taskID, database.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		ColumnID:    req.ColumnID,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Task not found")
			return
		}
		// Moving to an absent column trips the foreign key.
		if database.IsForeignKeyViolation(err) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Column not found")
			return
		}
		writeInternalError(w, "Update task error", err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete removes a task; its comments go with it.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID := pathID(r, "taskId")

	if err := h.dataService.DeleteTask(taskID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Task not found")
			return
		}
		writeInternalError(w, "Delete task error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	"kanban-board/database"
)

// CommentHandler handles listing and creating comments on tasks.
type CommentHandler struct {
	dataService *database.DataService
}

func NewCommentHandler(dataService *database.DataService) *CommentHandler {
	return &CommentHandler{dataService: dataService}
}

// List returns a task's comments oldest first, each with the author's name
// and email.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	taskID := pathID(r, "taskId")

	comments, err := h.dataService.ListComments(taskID)
	if err != nil {
		writeInternalError(w, "List comments error", err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func (req createCommentRequest) Validate() []FieldError {
	var details []FieldError
	if len(req.Content) < 1 {
		details = append(details, FieldError{Field: "content", Message: "must not be empty"})
	}
	return details
}

// Create adds a comment to a task. The author is the authenticated user,
// never taken from the body.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	taskID := pathID(r, "taskId")

	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "No token provided")
		return
	}

	var req createCommentRequest
	if !decodeBody(w, r, &req) || !validate(w, req) {
		return
	}

	if _, err := h.dataService.GetTask(taskID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Task not found")
			return
		}
		writeInternalError(w, "Create comment error", err)
		return
	}

	comment, err := h.dataService.CreateComment(taskID, userID, req.Content)
	if err != nil {
		// The task existed a moment ago; a racing delete trips the
		// foreign key here.
		if database.IsForeignKeyViolation(err) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Task not found")
			return
		}
		writeInternalError(w, "Create comment error", err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

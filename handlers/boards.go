package handlers

import (
	"errors"
	"net/http"

	"kanban-board/database"
)

// BoardHandler handles board reads and column creation within a board.
type BoardHandler struct {
	dataService *database.DataService
}

func NewBoardHandler(dataService *database.DataService) *BoardHandler {
	return &BoardHandler{dataService: dataService}
}

// Get returns a board with its creator's name.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	boardID := pathID(r, "boardId")

	board, err := h.dataService.GetBoard(boardID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Board not found")
			return
		}
		writeInternalError(w, "Get board error", err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

// ListColumns returns a board's columns ordered by position, each with its
// task count.
func (h *BoardHandler) ListColumns(w http.ResponseWriter, r *http.Request) {
	boardID := pathID(r, "boardId")

	columns, err := h.dataService.ListColumns(boardID)
	if err != nil {
		writeInternalError(w, "List columns error", err)
		return
	}

	writeJSON(w, http.StatusOK, columns)
}

type createColumnRequest struct {
	Title    string `json:"title"`
	Position *int   `json:"position"`
}

func (req createColumnRequest) Validate() []FieldError {
	var details []FieldError
	if len(req.Title) < 1 {
		details = append(details, FieldError{Field: "title", Message: "must not be empty"})
	}
	if req.Position == nil {
		details = append(details, FieldError{Field: "position", Message: "is required"})
	} else if *req.Position < 0 {
		details = append(details, FieldError{Field: "position", Message: "must be a non-negative integer"})
	}
	return details
}

// CreateColumn inserts a column into a board.
func (h *BoardHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	boardID := pathID(r, "boardId")

	var req createColumnRequest
	if !decodeBody(w, r, &req) || !validate(w, req) {
		return
	}

	column, err := h.dataService.CreateColumn(boardID, req.Title, *req.Position)
	if err != nil {
		// Foreign keys reject an insert into an absent (or concurrently
		// deleted) board.
		if database.IsForeignKeyViolation(err) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Board not found")
			return
		}
		writeInternalError(w, "Create column error", err)
		return
	}

	writeJSON(w, http.StatusCreated, column)
}

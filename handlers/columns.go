package handlers

import (
	"errors"
	"net/http"

	"kanban-board/database"
)

// ColumnHandler handles updates and deletion of single columns.
type ColumnHandler struct {
	dataService *database.DataService
}

func NewColumnHandler(dataService *database.DataService) *ColumnHandler {
	return &ColumnHandler{dataService: dataService}
}

type updateColumnRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

func (req updateColumnRequest) Validate() []FieldError {
	var details []FieldError
	if req.Title != nil && len(*req.Title) < 1 {
		details = append(details, FieldError{Field: "title", Message: "must not be empty"})
	}
	if req.Position != nil && *req.Position < 0 {
		details = append(details, FieldError{Field: "position", Message: "must be a non-negative integer"})
	}
	return details
}

// Update applies a partial update to a column. Absent fields are left
// untouched.
func (h *ColumnHandler) Update(w http.ResponseWriter, r *http.Request) {
	columnID := pathID(r, "columnId")

	var req updateColumnRequest
	if !decodeBody(w, r, &req) || !validate(w, req) {
		return
	}

	column, err := h.dataService.UpdateColumn(columnID, database.ColumnUpdate{
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Column not found")
			return
		}
		writeInternalError(w, "Update column error", err)
		return
	}

	writeJSON(w, http.StatusOK, column)
}

// Delete removes a column; its tasks and their comments go with it.
func (h *ColumnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	columnID := pathID(r, "columnId")

	if err := h.dataService.DeleteColumn(columnID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Column not found")
			return
		}
		writeInternalError(w, "Delete column error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

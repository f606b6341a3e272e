package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateColumn inserts a column into a board and returns it.
func (s *DataService) CreateColumn(boardID int64, title string, position int) (*Column, error) {
	result, err := s.db.Exec(
		"INSERT INTO columns (board_id, title, position) VALUES (?, ?, ?)",
		boardID, title, position,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert column: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get column id: %w", err)
	}

	return s.GetColumn(id)
}

// GetColumn retrieves a column by id.
func (s *DataService) GetColumn(id int64) (*Column, error) {
	c := &Column{}
	err := s.db.QueryRow(
		"SELECT id, board_id, title, position, created_at FROM columns WHERE id = ?", id,
	).Scan(&c.ID, &c.BoardID, &c.Title, &c.Position, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query column: %w", err)
	}
	return c, nil
}

// ColumnUpdate carries the fields of a partial column update. Nil fields
// are left untouched.
type ColumnUpdate struct {
	Title    *string
	Position *int
}

// UpdateColumn applies a partial update and returns the fresh row.
// Returns ErrNotFound when the column does not exist.
func (s *DataService) UpdateColumn(id int64, upd ColumnUpdate) (*Column, error) {
	if _, err := s.GetColumn(id); err != nil {
		return nil, err
	}

	sets := []string{}
	args := []any{}
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *upd.Position)
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := "UPDATE columns SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := s.db.Exec(query, args...); err != nil {
			return nil, fmt.Errorf("failed to update column: %w", err)
		}
	}

	return s.GetColumn(id)
}

// DeleteColumn removes a column; its tasks and their comments cascade.
// Returns ErrNotFound when the column does not exist.
func (s *DataService) DeleteColumn(id int64) error {
	result, err := s.db.Exec("DELETE FROM columns WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

package database

import (
	"database/sql"
	"fmt"
)

// CreateBoard inserts a new board and returns it.
func (s *DataService) CreateBoard(title string, createdBy int64) (*Board, error) {
	result, err := s.db.Exec(
		"INSERT INTO boards (title, created_by) VALUES (?, ?)",
		title, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert board: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get board id: %w", err)
	}

	return s.GetBoard(id)
}

// GetBoard retrieves a board by id, joined with its creator's name.
func (s *DataService) GetBoard(id int64) (*Board, error) {
	b := &Board{}
	err := s.db.QueryRow(`
		SELECT b.id, b.title, b.created_by, b.created_at, u.name
		FROM boards b
		JOIN users u ON b.created_by = u.id
		WHERE b.id = ?
	`, id).Scan(&b.ID, &b.Title, &b.CreatedBy, &b.CreatedAt, &b.CreatorName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query board: %w", err)
	}
	return b, nil
}

// DeleteBoard removes a board; columns, tasks and comments cascade.
// Returns ErrNotFound when the board does not exist.
func (s *DataService) DeleteBoard(id int64) error {
	result, err := s.db.Exec("DELETE FROM boards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
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

// ListColumns returns a board's columns ordered by position ascending,
// each annotated with its task count. An unknown board yields an empty list.
func (s *DataService) ListColumns(boardID int64) ([]Column, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.board_id, c.title, c.position, c.created_at,
			(SELECT COUNT(*) FROM tasks WHERE column_id = c.id) AS tasks_count
		FROM columns c
		WHERE c.board_id = ?
		ORDER BY c.position
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	columns := []Column{}
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Title, &c.Position, &c.CreatedAt, &c.TasksCount); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

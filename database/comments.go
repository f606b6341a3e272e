package database

import (
	"database/sql"
	"fmt"
)

const commentSelect = `
	SELECT c.id, c.task_id, c.user_id, c.content, c.created_at, u.name, u.email
	FROM comments c
	JOIN users u ON c.user_id = u.id
`

// ListComments returns a task's comments ordered by creation time ascending,
// each joined with the author's name and email.
func (s *DataService) ListComments(taskID int64) ([]Comment, error) {
	rows, err := s.db.Query(commentSelect+`
		WHERE c.task_id = ?
		ORDER BY c.created_at ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt,
			&c.UserName, &c.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateComment inserts a comment on a task by a user and returns it with
// the author joined.
func (s *DataService) CreateComment(taskID, userID int64, content string) (*Comment, error) {
	result, err := s.db.Exec(
		"INSERT INTO comments (task_id, user_id, content) VALUES (?, ?, ?)",
		taskID, userID, content,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment id: %w", err)
	}

	return s.GetComment(id)
}

// GetComment retrieves a comment by id with the author joined.
func (s *DataService) GetComment(id int64) (*Comment, error) {
	c := &Comment{}
	err := s.db.QueryRow(commentSelect+"WHERE c.id = ?", id).
		Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt, &c.UserName, &c.UserEmail)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query comment: %w", err)
	}
	return c, nil
}

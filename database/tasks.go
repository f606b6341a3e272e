package database

import (
	"database/sql"
	"fmt"
	"strings"
)

const taskSelect = `
	SELECT t.id, t.column_id, t.title, t.description, t.priority,
		t.created_by, t.created_at, t.updated_at, u.name
	FROM tasks t
	JOIN users u ON t.created_by = u.id
`

func scanTask(row *sql.Row) (*Task, error) {
	t := &Task{}
	err := row.Scan(&t.ID, &t.ColumnID, &t.Title, &t.Description, &t.Priority,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &t.CreatorName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return t, nil
}

// TaskListOptions narrows and orders a column's task listing.
type TaskListOptions struct {
	Search string
	Page   int
	Limit  int
	Sort   string // created_at, priority or updated_at
}

// sortColumn whitelists the ORDER BY column; anything unknown falls back
// to created_at.
func (o TaskListOptions) sortColumn() string {
	switch o.Sort {
	case "priority", "updated_at":
		return o.Sort
	default:
		return "created_at"
	}
}

// ListTasks returns one page of a column's tasks ordered by the sort column
// descending, plus the total match count. Search filters on a substring of
// title or description.
func (s *DataService) ListTasks(columnID int64, opts TaskListOptions) ([]Task, int, error) {
	where := "WHERE t.column_id = ?"
	args := []any{columnID}
	countArgs := []any{columnID}
	if opts.Search != "" {
		where += " AND (t.title LIKE ? OR t.description LIKE ?)"
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
		countArgs = append(countArgs, pattern, pattern)
	}

	offset := (opts.Page - 1) * opts.Limit
	query := taskSelect + where +
		fmt.Sprintf(" ORDER BY t.%s DESC LIMIT ? OFFSET ?", opts.sortColumn())
	args = append(args, opts.Limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ColumnID, &t.Title, &t.Description, &t.Priority,
			&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &t.CreatorName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := "SELECT COUNT(*) FROM tasks t " + where
	var total int
	if err := s.db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return tasks, total, nil
}

// CreateTask inserts a task into a column and returns it with the creator
// name joined.
func (s *DataService) CreateTask(columnID int64, title string, description *string, priority string, createdBy int64) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}

	result, err := s.db.Exec(`
		INSERT INTO tasks (column_id, title, description, priority, created_by)
		VALUES (?, ?, ?, ?, ?)
	`, columnID, title, description, priority, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get task id: %w", err)
	}

	return s.GetTask(id)
}

// GetTask retrieves a task by id with the creator name joined.
func (s *DataService) GetTask(id int64) (*Task, error) {
	return scanTask(s.db.QueryRow(taskSelect+"WHERE t.id = ?", id))
}

// TaskUpdate carries the fields of a partial task update. Nil fields are
// left untouched. ColumnID moves the task between columns.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *string
	ColumnID    *int64
}

// UpdateTask applies a partial update. updated_at is refreshed on every
// call, even when no other field changes. Returns ErrNotFound when the
// task does not exist.
func (s *DataService) UpdateTask(id int64, upd TaskUpdate) (*Task, error) {
	if _, err := s.GetTask(id); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *upd.Priority)
	}
	if upd.ColumnID != nil {
		sets = append(sets, "column_id = ?")
		args = append(args, *upd.ColumnID)
	}

	args = append(args, id)
	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(id)
}

// DeleteTask removes a task; its comments cascade. Returns ErrNotFound
// when the task does not exist.
func (s *DataService) DeleteTask(id int64) error {
	result, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
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

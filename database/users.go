package database

import (
	"database/sql"
	"fmt"
)

// CreateUser inserts a new user and returns it. The password must already
// be hashed by the caller.
func (s *DataService) CreateUser(email, hashedPassword, name string) (*User, error) {
	result, err := s.db.Exec(
		"INSERT INTO users (email, password, name) VALUES (?, ?, ?)",
		email, hashedPassword, name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	return s.GetUser(id)
}

// GetUser retrieves a user by id.
func (s *DataService) GetUser(id int64) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(
		"SELECT id, email, password, name, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email. Returns ErrNotFound when the
// email is unknown.
func (s *DataService) GetUserByEmail(email string) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(
		"SELECT id, email, password, name, created_at FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return u, nil
}

// CountUsers returns the number of registered users.
func (s *DataService) CountUsers() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

package store

import (
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/bilgen/okul/internal/model"
)

// CreateUser inserts a new user together with its role set.
func (s *Store) CreateUser(u model.User) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		slog.Error("failed to create user", "email", u.Email, "error", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, role := range u.Roles {
		if _, err := tx.Exec(`INSERT INTO user_roles (user_id, role) VALUES (?, ?)`, id, role); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	slog.Info("created user", "id", id, "email", u.Email, "roles", u.Roles)
	return id, nil
}

func (s *Store) userRoles(id int64) ([]model.Role, error) {
	rows, err := s.db.Query(`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []model.Role
	for rows.Next() {
		var r model.Role
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// GetUserByEmail returns a user with its roles, or nil if absent.
func (s *Store) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if u.Roles, err = s.userRoles(u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID returns a user with its roles, or nil if absent.
func (s *Store) GetUserByID(id int64) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if u.Roles, err = s.userRoles(u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users with their roles.
func (s *Store) ListUsers() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT id, name, email, password_hash, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		var err error
		if users[i].Roles, err = s.userRoles(users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// ListStudents returns all users holding the STUDENT role, ordered by name.
func (s *Store) ListStudents() ([]model.User, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, u.email, u.password_hash, u.created_at
		 FROM users u JOIN user_roles ur ON ur.user_id = u.id
		 WHERE ur.role = ? ORDER BY u.name`, model.RoleStudent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FilterStudents returns, out of the given candidate ids, the users that
// exist and hold the STUDENT capability. Non-matching ids are silently
// excluded; this is the fanout's target filter.
func (s *Store) FilterStudents(ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, model.RoleStudent)

	rows, err := s.db.Query(
		`SELECT u.id, u.name, u.email, u.password_hash, u.created_at
		 FROM users u JOIN user_roles ur ON ur.user_id = u.id
		 WHERE u.id IN (`+placeholders+`) AND ur.role = ? ORDER BY u.id`, args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserCount returns the total number of users.
func (s *Store) UserCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

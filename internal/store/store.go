// Package store persists the school domain in SQLite. JSON-encoded
// question and answer sequences are decoded at this boundary; business
// logic never sees raw encoded text.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for uniqueness outcomes callers are expected to handle
// per-row rather than abort on.
var (
	// ErrAlreadyAssigned reports a (exam, student) pair that already has a
	// homework. Assignment fanout records it as a per-student skip.
	ErrAlreadyAssigned = errors.New("homework already assigned")
	// ErrAlreadyMember reports a student already on a classroom roster.
	ErrAlreadyMember = errors.New("student already in classroom")
	// ErrEmailTaken reports a duplicate user email.
	ErrEmailTaken = errors.New("email already registered")
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_roles (
		user_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		UNIQUE(user_id, role),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS classrooms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		grade INTEGER NOT NULL,
		section TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		teacher_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (teacher_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS classroom_students (
		classroom_id INTEGER NOT NULL,
		student_id INTEGER NOT NULL,
		UNIQUE(classroom_id, student_id),
		FOREIGN KEY (classroom_id) REFERENCES classrooms(id) ON DELETE CASCADE,
		FOREIGN KEY (student_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS exams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		grade INTEGER NOT NULL,
		subject_name TEXT NOT NULL,
		topic TEXT NOT NULL DEFAULT '',
		questions TEXT NOT NULL,
		total_points INTEGER NOT NULL DEFAULT 0,
		duration INTEGER,
		difficulty TEXT NOT NULL DEFAULT 'MEDIUM',
		status TEXT NOT NULL DEFAULT 'DRAFT',
		created_by INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (created_by) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS homeworks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exam_id INTEGER NOT NULL,
		student_id INTEGER NOT NULL,
		teacher_id INTEGER NOT NULL,
		due_date DATETIME,
		status TEXT NOT NULL DEFAULT 'ASSIGNED',
		student_answers TEXT,
		score INTEGER,
		feedback TEXT NOT NULL DEFAULT '',
		submitted_at DATETIME,
		graded_at DATETIME,
		created_at DATETIME NOT NULL,
		UNIQUE(exam_id, student_id),
		FOREIGN KEY (exam_id) REFERENCES exams(id) ON DELETE CASCADE,
		FOREIGN KEY (student_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (teacher_id) REFERENCES users(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. Per-row uniqueness outcomes (duplicate assignment, duplicate
// roster entry) rely on the constraint itself rather than a prior
// existence check, so check-and-insert races cannot produce duplicates.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

package store

import (
	"database/sql"
	"time"

	"github.com/bilgen/okul/internal/model"
)

// CreateClassroom inserts a new classroom.
func (s *Store) CreateClassroom(c model.Classroom) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO classrooms (name, grade, section, description, teacher_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Grade, c.Section, c.Description, c.TeacherID, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetClassroom returns a classroom, or nil if absent.
func (s *Store) GetClassroom(id int64) (*model.Classroom, error) {
	var c model.Classroom
	err := s.db.QueryRow(
		`SELECT id, name, grade, section, description, teacher_id, created_at
		 FROM classrooms WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Grade, &c.Section, &c.Description, &c.TeacherID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClassrooms returns classrooms, newest first. A non-nil teacherID
// scopes the list to one owner.
func (s *Store) ListClassrooms(teacherID *int64) ([]model.Classroom, error) {
	query := `SELECT id, name, grade, section, description, teacher_id, created_at FROM classrooms`
	var args []any
	if teacherID != nil {
		query += ` WHERE teacher_id = ?`
		args = append(args, *teacherID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var classrooms []model.Classroom
	for rows.Next() {
		var c model.Classroom
		if err := rows.Scan(&c.ID, &c.Name, &c.Grade, &c.Section, &c.Description, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		classrooms = append(classrooms, c)
	}
	return classrooms, rows.Err()
}

// UpdateClassroom overwrites a classroom's mutable fields.
func (s *Store) UpdateClassroom(c model.Classroom) error {
	_, err := s.db.Exec(
		`UPDATE classrooms SET name = ?, grade = ?, section = ?, description = ?, teacher_id = ? WHERE id = ?`,
		c.Name, c.Grade, c.Section, c.Description, c.TeacherID, c.ID,
	)
	return err
}

// DeleteClassroom removes a classroom; its roster rows cascade.
func (s *Store) DeleteClassroom(id int64) error {
	_, err := s.db.Exec(`DELETE FROM classrooms WHERE id = ?`, id)
	return err
}

// AddClassroomStudent puts a student on a classroom roster. A duplicate
// pair returns ErrAlreadyMember via the unique constraint.
func (s *Store) AddClassroomStudent(classroomID, studentID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO classroom_students (classroom_id, student_id) VALUES (?, ?)`,
		classroomID, studentID,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrAlreadyMember
	}
	return err
}

// RemoveClassroomStudent takes a student off a classroom roster.
func (s *Store) RemoveClassroomStudent(classroomID, studentID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM classroom_students WHERE classroom_id = ? AND student_id = ?`,
		classroomID, studentID,
	)
	return err
}

// ListClassroomStudents returns a classroom's roster, ordered by name.
func (s *Store) ListClassroomStudents(classroomID int64) ([]model.User, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, u.email, u.password_hash, u.created_at
		 FROM users u JOIN classroom_students cs ON cs.student_id = u.id
		 WHERE cs.classroom_id = ? ORDER BY u.name`, classroomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var students []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, u)
	}
	return students, rows.Err()
}

// IsClassroomMember reports whether a student is on a classroom roster.
func (s *Store) IsClassroomMember(classroomID, studentID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM classroom_students WHERE classroom_id = ? AND student_id = ?`,
		classroomID, studentID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

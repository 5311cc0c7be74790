package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bilgen/okul/internal/model"
)

func encodeAnswers(answers []model.StudentAnswer) (string, error) {
	data, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	return string(data), nil
}

func decodeAnswers(raw string) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return answers, nil
}

// CreateHomework inserts one ASSIGNED homework for a (exam, student) pair.
// A duplicate pair returns ErrAlreadyAssigned via the unique constraint,
// not via a prior existence check, so concurrent fanouts cannot insert
// twice.
func (s *Store) CreateHomework(examID, studentID, teacherID int64, dueDate *time.Time) (int64, error) {
	var due any
	if dueDate != nil {
		due = *dueDate
	}
	res, err := s.db.Exec(
		`INSERT INTO homeworks (exam_id, student_id, teacher_id, due_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		examID, studentID, teacherID, due, model.HomeworkAssigned, time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyAssigned
		}
		return 0, err
	}
	return res.LastInsertId()
}

const homeworkColumns = `id, exam_id, student_id, teacher_id, due_date, status,
	student_answers, score, feedback, submitted_at, graded_at, created_at`

func scanHomework(row interface{ Scan(...any) error }) (*model.Homework, error) {
	var hw model.Homework
	var due, submitted, graded sql.NullTime
	var answers sql.NullString
	var score sql.NullInt64
	err := row.Scan(&hw.ID, &hw.ExamID, &hw.StudentID, &hw.TeacherID, &due, &hw.Status,
		&answers, &score, &hw.Feedback, &submitted, &graded, &hw.CreatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		hw.DueDate = &due.Time
	}
	if submitted.Valid {
		hw.SubmittedAt = &submitted.Time
	}
	if graded.Valid {
		hw.GradedAt = &graded.Time
	}
	if score.Valid {
		v := int(score.Int64)
		hw.Score = &v
	}
	if answers.Valid && answers.String != "" {
		if hw.Answers, err = decodeAnswers(answers.String); err != nil {
			return nil, err
		}
	}
	return &hw, nil
}

// GetHomework returns a homework with its decoded answers, or nil if absent.
func (s *Store) GetHomework(id int64) (*model.Homework, error) {
	hw, err := scanHomework(s.db.QueryRow(`SELECT `+homeworkColumns+` FROM homeworks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return hw, err
}

// GetHomeworkForStudent returns the student's homework for an exam, or nil
// if none exists yet. The visibility filter keys off this.
func (s *Store) GetHomeworkForStudent(examID, studentID int64) (*model.Homework, error) {
	hw, err := scanHomework(s.db.QueryRow(
		`SELECT `+homeworkColumns+` FROM homeworks WHERE exam_id = ? AND student_id = ?`,
		examID, studentID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return hw, err
}

// ListHomeworksByTeacher returns assignments, newest first. A nil
// teacherID lists all (admin view); status and examID filter when set.
func (s *Store) ListHomeworksByTeacher(teacherID *int64, status model.HomeworkStatus, examID int64) ([]model.Homework, error) {
	query := `SELECT ` + homeworkColumns + ` FROM homeworks WHERE 1=1`
	var args []any
	if teacherID != nil {
		query += ` AND teacher_id = ?`
		args = append(args, *teacherID)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if examID != 0 {
		query += ` AND exam_id = ?`
		args = append(args, examID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return s.queryHomeworks(query, args...)
}

// ListHomeworksByStudent returns a student's assignments, pending first,
// then by due date.
func (s *Store) ListHomeworksByStudent(studentID int64, status model.HomeworkStatus) ([]model.Homework, error) {
	query := `SELECT ` + homeworkColumns + ` FROM homeworks WHERE student_id = ?`
	args := []any{studentID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY status ASC, due_date ASC, id ASC`
	return s.queryHomeworks(query, args...)
}

func (s *Store) queryHomeworks(query string, args ...any) ([]model.Homework, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var homeworks []model.Homework
	for rows.Next() {
		hw, err := scanHomework(rows)
		if err != nil {
			return nil, err
		}
		homeworks = append(homeworks, *hw)
	}
	return homeworks, rows.Err()
}

// SubmitHomework records a graded answer sequence and moves the homework
// out of ASSIGNED in a single conditional update. It reports false when
// the homework was no longer ASSIGNED, which is how a concurrent double
// submission loses the race: the check and the transition are one
// statement, never a separate read-then-write.
func (s *Store) SubmitHomework(id int64, answers []model.StudentAnswer, status model.HomeworkStatus, score *int) (bool, error) {
	raw, err := encodeAnswers(answers)
	if err != nil {
		return false, err
	}
	var scoreVal any
	if score != nil {
		scoreVal = *score
	}
	res, err := s.db.Exec(
		`UPDATE homeworks SET student_answers = ?, status = ?, score = ?, submitted_at = ?
		 WHERE id = ? AND status = ?`,
		raw, status, scoreVal, time.Now(), id, model.HomeworkAssigned,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GradeHomework stores a merged answer sequence with its recomputed total,
// sets the status to GRADED and records the grading timestamp. Re-grading
// an already GRADED homework goes through the same path.
func (s *Store) GradeHomework(id int64, answers []model.StudentAnswer, score int, feedback string) error {
	raw, err := encodeAnswers(answers)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE homeworks SET student_answers = ?, status = ?, score = ?, feedback = ?, graded_at = ?
		 WHERE id = ?`,
		raw, model.HomeworkGraded, score, feedback, time.Now(), id,
	)
	return err
}

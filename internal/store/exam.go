package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bilgen/okul/internal/model"
)

func encodeQuestions(questions []model.Question) (string, error) {
	data, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}
	return string(data), nil
}

func decodeQuestions(raw string) ([]model.Question, error) {
	var questions []model.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}

// CreateExam inserts a new DRAFT exam. The total point value is derived
// from the question set, never taken from the caller.
func (s *Store) CreateExam(e model.Exam) (int64, error) {
	raw, err := encodeQuestions(e.Questions)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	res, err := s.db.Exec(
		`INSERT INTO exams (title, description, grade, subject_name, topic, questions,
		                    total_points, duration, difficulty, status, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Description, e.Grade, e.SubjectName, e.Topic, raw,
		model.TotalPoints(e.Questions), nullableInt(e.Duration), e.Difficulty,
		model.ExamDraft, e.CreatedByID, now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanExam(row interface{ Scan(...any) error }) (*model.Exam, error) {
	var e model.Exam
	var raw string
	var duration sql.NullInt64
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Grade, &e.SubjectName, &e.Topic,
		&raw, &e.TotalPoints, &duration, &e.Difficulty, &e.Status, &e.CreatedByID,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		e.Duration = &d
	}
	if e.Questions, err = decodeQuestions(raw); err != nil {
		return nil, err
	}
	return &e, nil
}

const examColumns = `id, title, description, grade, subject_name, topic, questions,
	total_points, duration, difficulty, status, created_by, created_at, updated_at`

// GetExam returns an exam with its decoded question set, or nil if absent.
func (s *Store) GetExam(id int64) (*model.Exam, error) {
	e, err := scanExam(s.db.QueryRow(`SELECT `+examColumns+` FROM exams WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// ListExams returns exams, newest first. A non-nil createdBy scopes the
// list to one creator; a non-empty status filters by lifecycle state.
func (s *Store) ListExams(createdBy *int64, status model.ExamStatus) ([]model.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE 1=1`
	var args []any
	if createdBy != nil {
		query += ` AND created_by = ?`
		args = append(args, *createdBy)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// UpdateExam overwrites an exam's mutable fields. When the question set
// changes, the total point value is recomputed from it.
func (s *Store) UpdateExam(e model.Exam) error {
	raw, err := encodeQuestions(e.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE exams SET title = ?, description = ?, grade = ?, subject_name = ?, topic = ?,
		        questions = ?, total_points = ?, duration = ?, difficulty = ?, updated_at = ?
		 WHERE id = ?`,
		e.Title, e.Description, e.Grade, e.SubjectName, e.Topic,
		raw, model.TotalPoints(e.Questions), nullableInt(e.Duration), e.Difficulty,
		time.Now(), e.ID,
	)
	return err
}

// PublishExam transitions a DRAFT exam to PUBLISHED. The conditional
// update makes the transition one-way and idempotent under concurrent
// fanouts.
func (s *Store) PublishExam(id int64) error {
	_, err := s.db.Exec(
		`UPDATE exams SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		model.ExamPublished, time.Now(), id, model.ExamDraft,
	)
	return err
}

// DeleteExam removes an exam.
func (s *Store) DeleteExam(id int64) error {
	_, err := s.db.Exec(`DELETE FROM exams WHERE id = ?`, id)
	return err
}

// HomeworkCountForExam returns how many assignments reference an exam.
func (s *Store) HomeworkCountForExam(examID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM homeworks WHERE exam_id = ?`, examID).Scan(&count)
	return count, err
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

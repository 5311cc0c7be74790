package model

import "time"

// ExamExport is the top-level JSON structure for exam result export.
type ExamExport struct {
	ExamID      int64           `json:"exam_id"`
	Title       string          `json:"title"`
	Grade       int             `json:"grade"`
	SubjectName string          `json:"subject_name"`
	TotalPoints int             `json:"total_points"`
	Results     []StudentResult `json:"results"`
}

// StudentResult holds one student's homework outcome for export.
type StudentResult struct {
	StudentID   int64          `json:"student_id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Status      HomeworkStatus `json:"status"`
	Score       *int           `json:"score,omitempty"`
	Feedback    string         `json:"feedback,omitempty"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	GradedAt    *time.Time     `json:"graded_at,omitempty"`
	Answers     []AnswerResult `json:"answers,omitempty"`
}

// AnswerResult holds per-question data for export.
type AnswerResult struct {
	QuestionID     int64  `json:"question_id"`
	Question       string `json:"question"`
	MaxPoints      int    `json:"max_points"`
	Answer         string `json:"answer"`
	IsCorrect      *bool  `json:"is_correct,omitempty"`
	Points         *int   `json:"points,omitempty"`
	TeacherComment string `json:"teacher_comment,omitempty"`
}

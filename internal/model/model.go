package model

import (
	"context"
	"time"
)

// Role is a capability name carried in a user's role set.
type Role string

const (
	// RoleStudent marks a user who can receive and submit homework.
	RoleStudent Role = "STUDENT"
	// RoleTeacher marks a user who can author exams and grade homework.
	RoleTeacher Role = "TEACHER"
	// RoleAdmin marks a user with unrestricted access.
	RoleAdmin Role = "ADMIN"
)

// User represents a system user. A user may hold several roles at once
// (a teacher who is also an admin, for example).
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Actor is the authenticated caller of a request: an id plus a capability
// set. It is populated by the auth middleware from verified token claims
// and checked through the predicates below instead of ad hoc membership
// tests in each operation.
type Actor struct {
	ID    int64
	Email string
	Roles []Role
}

// HasRole reports whether the actor holds the given capability.
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor holds the ADMIN capability.
func (a Actor) IsAdmin() bool { return a.HasRole(RoleAdmin) }

// IsTeacherOrAdmin reports whether the actor may author exams, assign and
// grade homework.
func (a Actor) IsTeacherOrAdmin() bool {
	return a.HasRole(RoleTeacher) || a.HasRole(RoleAdmin)
}

// IsStudentOnly reports whether the actor is a plain student viewer: holds
// STUDENT but not TEACHER or ADMIN. Question redaction applies only to
// such viewers.
func (a Actor) IsStudentOnly() bool {
	return a.HasRole(RoleStudent) && !a.HasRole(RoleTeacher) && !a.HasRole(RoleAdmin)
}

type actorCtxKey struct{}

// ContextWithActor stores the authenticated actor in the request context.
func ContextWithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

// ActorFromContext retrieves the authenticated actor from context.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorCtxKey{}).(Actor)
	return a, ok
}

// QuestionType tags the two question variants.
type QuestionType string

const (
	// QuestionMultipleChoice questions carry an option list and a correct
	// answer tag; they are auto-graded at submission time.
	QuestionMultipleChoice QuestionType = "multiple_choice"
	// QuestionOpenEnded questions carry an expected answer and a rubric;
	// they are graded manually by the teacher.
	QuestionOpenEnded QuestionType = "open_ended"
)

// Question is a single exam question. The JSON keys match the wire format
// the frontend and the AI provider speak. Answer-revealing fields are
// omitempty so redaction removes them from the payload entirely.
type Question struct {
	ID             int64        `json:"id"`
	Type           QuestionType `json:"type"`
	Text           string       `json:"question"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswer  string       `json:"correctAnswer,omitempty"`
	ExpectedAnswer string       `json:"expectedAnswer,omitempty"`
	Rubric         string       `json:"rubric,omitempty"`
	Points         int          `json:"points"`
	Explanation    string       `json:"explanation,omitempty"`
}

// TotalPoints sums the point values of a question set. An exam's declared
// total is always recomputed from this at create/update time.
func TotalPoints(questions []Question) int {
	total := 0
	for _, q := range questions {
		total += q.Points
	}
	return total
}

// ExamStatus is the exam lifecycle state.
type ExamStatus string

const (
	ExamDraft     ExamStatus = "DRAFT"
	ExamPublished ExamStatus = "PUBLISHED"
)

// Difficulty is the declared exam difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Exam is a reusable, versionless definition of an ordered question set
// with a derived total point value. It transitions DRAFT -> PUBLISHED
// exactly once, as a side effect of the first successful assignment
// fanout, and never reverts.
type Exam struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Grade       int        `json:"grade"`
	SubjectName string     `json:"subjectName"`
	Topic       string     `json:"topic,omitempty"`
	Questions   []Question `json:"questions"`
	TotalPoints int        `json:"totalPoints"`
	Duration    *int       `json:"duration,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	Status      ExamStatus `json:"status"`
	CreatedByID int64      `json:"createdById"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HomeworkStatus is the assignment lifecycle state.
type HomeworkStatus string

const (
	HomeworkAssigned  HomeworkStatus = "ASSIGNED"
	HomeworkSubmitted HomeworkStatus = "SUBMITTED"
	HomeworkGraded    HomeworkStatus = "GRADED"
)

// StudentAnswer is one element of a homework's answer sequence. IsCorrect
// and Points stay nil for open-ended answers until a teacher grades them.
type StudentAnswer struct {
	QuestionID     int64  `json:"questionId"`
	Answer         string `json:"answer"`
	IsCorrect      *bool  `json:"isCorrect"`
	Points         *int   `json:"points"`
	TeacherComment string `json:"teacherComment,omitempty"`
}

// Homework is a single student's tracked assignment of one exam. At most
// one homework exists per (exam, student) pair.
type Homework struct {
	ID          int64           `json:"id"`
	ExamID      int64           `json:"examId"`
	StudentID   int64           `json:"studentId"`
	TeacherID   int64           `json:"teacherId"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Status      HomeworkStatus  `json:"status"`
	Answers     []StudentAnswer `json:"studentAnswers"`
	Score       *int            `json:"score"`
	Feedback    string          `json:"feedback,omitempty"`
	SubmittedAt *time.Time      `json:"submittedAt,omitempty"`
	GradedAt    *time.Time      `json:"gradedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ClassroomSections is the valid set of classroom sections.
var ClassroomSections = []string{"A", "B", "C", "D"}

// ValidSection reports whether s is a known classroom section.
func ValidSection(s string) bool {
	for _, sec := range ClassroomSections {
		if s == sec {
			return true
		}
	}
	return false
}

// Classroom is a roster of students owned by one teacher. Its name is
// derived from grade and section ("5-B").
type Classroom struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Grade       int       `json:"grade"`
	Section     string    `json:"section"`
	Description string    `json:"description,omitempty"`
	TeacherID   int64     `json:"teacherId"`
	CreatedAt   time.Time `json:"createdAt"`
}

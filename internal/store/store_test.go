package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bilgen/okul/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store, name string, roles ...model.Role) int64 {
	t.Helper()
	id, err := s.CreateUser(model.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@okul.test", name),
		PasswordHash: "x",
		Roles:        roles,
	})
	if err != nil {
		t.Fatalf("createTestUser(%s): %v", name, err)
	}
	return id
}

func testQuestions() []model.Question {
	yes := "A"
	return []model.Question{
		{ID: 1, Type: model.QuestionMultipleChoice, Text: "pick", Options: []string{"A", "B"}, CorrectAnswer: yes, Points: 60},
		{ID: 2, Type: model.QuestionOpenEnded, Text: "explain", ExpectedAnswer: "because", Rubric: "full answer", Points: 40},
	}
}

func createTestExam(t *testing.T, s *Store, teacherID int64, questions []model.Question) int64 {
	t.Helper()
	id, err := s.CreateExam(model.Exam{
		Title:       "Midterm",
		Grade:       5,
		SubjectName: "Math",
		Topic:       "Fractions",
		Questions:   questions,
		Difficulty:  model.DifficultyMedium,
		CreatedByID: teacherID,
	})
	if err != nil {
		t.Fatalf("createTestExam: %v", err)
	}
	return id
}

func TestCreateUserWithRoles(t *testing.T) {
	s := newTestStore(t)

	id := createTestUser(t, s, "ali", model.RoleStudent, model.RoleTeacher)
	u, err := s.GetUserByID(id)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if len(u.Roles) != 2 {
		t.Fatalf("roles = %v, want 2 entries", u.Roles)
	}

	// Duplicate email is a distinct sentinel, not a generic failure.
	_, err = s.CreateUser(model.User{Name: "ali2", Email: "ali@okul.test", PasswordHash: "x", Roles: []model.Role{model.RoleStudent}})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: err = %v, want ErrEmailTaken", err)
	}

	missing, err := s.GetUserByEmail("nobody@okul.test")
	if err != nil || missing != nil {
		t.Fatalf("absent user: got %v, %v; want nil, nil", missing, err)
	}
}

func TestFilterStudentsExcludesNonStudents(t *testing.T) {
	s := newTestStore(t)

	student := createTestUser(t, s, "veli", model.RoleStudent)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)

	got, err := s.FilterStudents([]int64{student, teacher, 9999})
	if err != nil {
		t.Fatalf("FilterStudents: %v", err)
	}
	if len(got) != 1 || got[0].ID != student {
		t.Fatalf("FilterStudents = %v, want only student %d", got, student)
	}
}

func TestExamTotalPointsDerived(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)

	id := createTestExam(t, s, teacher, testQuestions())
	e, err := s.GetExam(id)
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if e.TotalPoints != 100 {
		t.Fatalf("TotalPoints = %d, want 100", e.TotalPoints)
	}
	if e.Status != model.ExamDraft {
		t.Fatalf("Status = %s, want DRAFT", e.Status)
	}

	// Updating the question set recomputes the total.
	e.Questions = e.Questions[:1]
	if err := s.UpdateExam(*e); err != nil {
		t.Fatalf("UpdateExam: %v", err)
	}
	e, _ = s.GetExam(id)
	if e.TotalPoints != 60 {
		t.Fatalf("TotalPoints after update = %d, want 60", e.TotalPoints)
	}
}

func TestPublishExamOneWay(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	id := createTestExam(t, s, teacher, testQuestions())

	if err := s.PublishExam(id); err != nil {
		t.Fatalf("PublishExam: %v", err)
	}
	e, _ := s.GetExam(id)
	if e.Status != model.ExamPublished {
		t.Fatalf("Status = %s, want PUBLISHED", e.Status)
	}

	// Re-publishing is a no-op, never a revert.
	if err := s.PublishExam(id); err != nil {
		t.Fatalf("second PublishExam: %v", err)
	}
	e, _ = s.GetExam(id)
	if e.Status != model.ExamPublished {
		t.Fatalf("Status after second publish = %s, want PUBLISHED", e.Status)
	}
}

func TestCreateHomeworkUniquePerStudent(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	student := createTestUser(t, s, "veli", model.RoleStudent)
	exam := createTestExam(t, s, teacher, testQuestions())

	if _, err := s.CreateHomework(exam, student, teacher, nil); err != nil {
		t.Fatalf("CreateHomework: %v", err)
	}
	_, err := s.CreateHomework(exam, student, teacher, nil)
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("duplicate assignment: err = %v, want ErrAlreadyAssigned", err)
	}

	count, err := s.HomeworkCountForExam(exam)
	if err != nil {
		t.Fatalf("HomeworkCountForExam: %v", err)
	}
	if count != 1 {
		t.Fatalf("homework count = %d, want 1", count)
	}
}

func TestSubmitHomeworkConditionalTransition(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	student := createTestUser(t, s, "veli", model.RoleStudent)
	exam := createTestExam(t, s, teacher, testQuestions())
	hwID, err := s.CreateHomework(exam, student, teacher, nil)
	if err != nil {
		t.Fatalf("CreateHomework: %v", err)
	}

	answers := []model.StudentAnswer{{QuestionID: 1, Answer: "A"}}
	ok, err := s.SubmitHomework(hwID, answers, model.HomeworkSubmitted, nil)
	if err != nil {
		t.Fatalf("SubmitHomework: %v", err)
	}
	if !ok {
		t.Fatal("first submission should win")
	}

	hw, _ := s.GetHomework(hwID)
	if hw.Status != model.HomeworkSubmitted {
		t.Fatalf("Status = %s, want SUBMITTED", hw.Status)
	}
	if hw.SubmittedAt == nil {
		t.Fatal("SubmittedAt should be set")
	}
	if len(hw.Answers) != 1 || hw.Answers[0].Answer != "A" {
		t.Fatalf("Answers = %v", hw.Answers)
	}

	// A second submission loses the conditional update and mutates nothing.
	ok, err = s.SubmitHomework(hwID, []model.StudentAnswer{{QuestionID: 1, Answer: "B"}}, model.HomeworkSubmitted, nil)
	if err != nil {
		t.Fatalf("second SubmitHomework: %v", err)
	}
	if ok {
		t.Fatal("second submission must not pass the ASSIGNED check")
	}
	hw, _ = s.GetHomework(hwID)
	if hw.Answers[0].Answer != "A" {
		t.Fatalf("answers mutated by losing submission: %v", hw.Answers)
	}
}

func TestSubmitHomeworkStraightToGraded(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	student := createTestUser(t, s, "veli", model.RoleStudent)
	exam := createTestExam(t, s, teacher, testQuestions()[:1])
	hwID, _ := s.CreateHomework(exam, student, teacher, nil)

	score := 60
	correct := true
	answers := []model.StudentAnswer{{QuestionID: 1, Answer: "A", IsCorrect: &correct, Points: &score}}
	ok, err := s.SubmitHomework(hwID, answers, model.HomeworkGraded, &score)
	if err != nil || !ok {
		t.Fatalf("SubmitHomework: ok=%v err=%v", ok, err)
	}

	hw, _ := s.GetHomework(hwID)
	if hw.Status != model.HomeworkGraded {
		t.Fatalf("Status = %s, want GRADED", hw.Status)
	}
	if hw.Score == nil || *hw.Score != 60 {
		t.Fatalf("Score = %v, want 60", hw.Score)
	}
}

func TestGradeHomework(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	student := createTestUser(t, s, "veli", model.RoleStudent)
	exam := createTestExam(t, s, teacher, testQuestions())
	hwID, _ := s.CreateHomework(exam, student, teacher, nil)
	_, _ = s.SubmitHomework(hwID, []model.StudentAnswer{{QuestionID: 1, Answer: "A"}, {QuestionID: 2, Answer: "text"}}, model.HomeworkSubmitted, nil)

	p1, p2 := 60, 30
	c := true
	graded := []model.StudentAnswer{
		{QuestionID: 1, Answer: "A", IsCorrect: &c, Points: &p1},
		{QuestionID: 2, Answer: "text", IsCorrect: &c, Points: &p2, TeacherComment: "good"},
	}
	if err := s.GradeHomework(hwID, graded, 90, "well done"); err != nil {
		t.Fatalf("GradeHomework: %v", err)
	}

	hw, _ := s.GetHomework(hwID)
	if hw.Status != model.HomeworkGraded {
		t.Fatalf("Status = %s, want GRADED", hw.Status)
	}
	if hw.Score == nil || *hw.Score != 90 {
		t.Fatalf("Score = %v, want 90", hw.Score)
	}
	if hw.Feedback != "well done" {
		t.Fatalf("Feedback = %q", hw.Feedback)
	}
	if hw.GradedAt == nil {
		t.Fatal("GradedAt should be set")
	}
	if hw.Answers[1].TeacherComment != "good" {
		t.Fatalf("TeacherComment = %q", hw.Answers[1].TeacherComment)
	}
}

func TestGetHomeworkForStudent(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	student := createTestUser(t, s, "veli", model.RoleStudent)
	exam := createTestExam(t, s, teacher, testQuestions())

	hw, err := s.GetHomeworkForStudent(exam, student)
	if err != nil || hw != nil {
		t.Fatalf("absent homework: got %v, %v; want nil, nil", hw, err)
	}

	due := time.Now().Add(48 * time.Hour)
	hwID, _ := s.CreateHomework(exam, student, teacher, &due)
	hw, err = s.GetHomeworkForStudent(exam, student)
	if err != nil {
		t.Fatalf("GetHomeworkForStudent: %v", err)
	}
	if hw == nil || hw.ID != hwID {
		t.Fatalf("homework = %v, want id %d", hw, hwID)
	}
	if hw.DueDate == nil {
		t.Fatal("DueDate should round-trip")
	}
}

func TestListHomeworksByStudentStatusFilter(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	student := createTestUser(t, s, "veli", model.RoleStudent)
	exam1 := createTestExam(t, s, teacher, testQuestions())
	exam2 := createTestExam(t, s, teacher, testQuestions())

	hw1, _ := s.CreateHomework(exam1, student, teacher, nil)
	_, _ = s.CreateHomework(exam2, student, teacher, nil)
	_, _ = s.SubmitHomework(hw1, []model.StudentAnswer{{QuestionID: 1, Answer: "A"}}, model.HomeworkSubmitted, nil)

	all, err := s.ListHomeworksByStudent(student, "")
	if err != nil {
		t.Fatalf("ListHomeworksByStudent: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}

	submitted, err := s.ListHomeworksByStudent(student, model.HomeworkSubmitted)
	if err != nil {
		t.Fatalf("ListHomeworksByStudent(SUBMITTED): %v", err)
	}
	if len(submitted) != 1 || submitted[0].ID != hw1 {
		t.Fatalf("submitted = %v, want only hw %d", submitted, hw1)
	}
}

func TestClassroomRoster(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	student := createTestUser(t, s, "veli", model.RoleStudent)

	classID, err := s.CreateClassroom(model.Classroom{Name: "5-B", Grade: 5, Section: "B", TeacherID: teacher})
	if err != nil {
		t.Fatalf("CreateClassroom: %v", err)
	}

	if err := s.AddClassroomStudent(classID, student); err != nil {
		t.Fatalf("AddClassroomStudent: %v", err)
	}
	if err := s.AddClassroomStudent(classID, student); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("duplicate roster entry: err = %v, want ErrAlreadyMember", err)
	}

	member, err := s.IsClassroomMember(classID, student)
	if err != nil || !member {
		t.Fatalf("IsClassroomMember = %v, %v; want true", member, err)
	}

	roster, err := s.ListClassroomStudents(classID)
	if err != nil {
		t.Fatalf("ListClassroomStudents: %v", err)
	}
	if len(roster) != 1 || roster[0].ID != student {
		t.Fatalf("roster = %v", roster)
	}

	if err := s.RemoveClassroomStudent(classID, student); err != nil {
		t.Fatalf("RemoveClassroomStudent: %v", err)
	}
	roster, _ = s.ListClassroomStudents(classID)
	if len(roster) != 0 {
		t.Fatalf("roster after removal = %v, want empty", roster)
	}
}

func TestExportExamResults(t *testing.T) {
	s := newTestStore(t)
	teacher := createTestUser(t, s, "hoca", model.RoleTeacher)
	student := createTestUser(t, s, "veli", model.RoleStudent)
	exam := createTestExam(t, s, teacher, testQuestions())
	hwID, _ := s.CreateHomework(exam, student, teacher, nil)

	p := 60
	c := true
	_, _ = s.SubmitHomework(hwID, []model.StudentAnswer{{QuestionID: 1, Answer: "A", IsCorrect: &c, Points: &p}}, model.HomeworkSubmitted, nil)

	export, err := s.ExportExamResults(exam)
	if err != nil {
		t.Fatalf("ExportExamResults: %v", err)
	}
	if export.ExamID != exam || export.TotalPoints != 100 {
		t.Fatalf("export header = %+v", export)
	}
	if len(export.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(export.Results))
	}
	res := export.Results[0]
	if res.StudentID != student || res.Status != model.HomeworkSubmitted {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Answers) != 1 || res.Answers[0].Question == "" {
		t.Fatalf("answers = %+v, want question text resolved", res.Answers)
	}
}

package grading

import (
	"encoding/json"
	"testing"

	"github.com/bilgen/okul/internal/model"
)

var (
	studentViewer = model.Actor{ID: 5, Roles: []model.Role{model.RoleStudent}}
	teacherViewer = model.Actor{ID: 7, Roles: []model.Role{model.RoleTeacher}}
)

func testQuestions() []model.Question {
	return []model.Question{
		mcQuestion(1, "A", 60),
		openQuestion(2, 40),
	}
}

func assertRedacted(t *testing.T, questions []model.Question) {
	t.Helper()
	for i, q := range questions {
		if q.CorrectAnswer != "" || q.ExpectedAnswer != "" || q.Explanation != "" {
			t.Errorf("question %d not redacted: %+v", i, q)
		}
	}
}

func TestVisibleQuestionsTeacherSeesAll(t *testing.T) {
	got := VisibleQuestions(testQuestions(), teacherViewer, nil)
	if got[0].CorrectAnswer != "A" {
		t.Error("teacher must see the correct answer")
	}
	if got[1].ExpectedAnswer == "" {
		t.Error("teacher must see the expected answer")
	}
}

func TestVisibleQuestionsStudentWithoutHomework(t *testing.T) {
	got := VisibleQuestions(testQuestions(), studentViewer, nil)
	assertRedacted(t, got)
}

func TestVisibleQuestionsStudentAssigned(t *testing.T) {
	hw := &model.Homework{Status: model.HomeworkAssigned}
	got := VisibleQuestions(testQuestions(), studentViewer, hw)
	assertRedacted(t, got)
}

func TestVisibleQuestionsStudentAfterSubmission(t *testing.T) {
	for _, status := range []model.HomeworkStatus{model.HomeworkSubmitted, model.HomeworkGraded} {
		hw := &model.Homework{Status: status}
		got := VisibleQuestions(testQuestions(), studentViewer, hw)
		if got[0].CorrectAnswer != "A" {
			t.Errorf("status %s: correct answer should be visible", status)
		}
		if got[1].ExpectedAnswer == "" {
			t.Errorf("status %s: expected answer should be visible", status)
		}
	}
}

func TestVisibleQuestionsTeacherRoleOnStudentDoesNotRedact(t *testing.T) {
	// A user holding both STUDENT and TEACHER is not a plain student viewer.
	mixed := model.Actor{ID: 9, Roles: []model.Role{model.RoleStudent, model.RoleTeacher}}
	got := VisibleQuestions(testQuestions(), mixed, nil)
	if got[0].CorrectAnswer != "A" {
		t.Error("mixed-role viewer must see the full question set")
	}
}

func TestRedactDoesNotMutateInput(t *testing.T) {
	questions := testQuestions()
	_ = Redact(questions)
	if questions[0].CorrectAnswer != "A" {
		t.Error("Redact must not mutate its input")
	}
}

func TestRedactedFieldsAbsentOnWire(t *testing.T) {
	data, err := json.Marshal(Redact(testQuestions()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var payload []map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i, q := range payload {
		for _, key := range []string{"correctAnswer", "expectedAnswer", "explanation"} {
			if _, ok := q[key]; ok {
				t.Errorf("question %d still carries %q on the wire", i, key)
			}
		}
		// The rubric is not an answer key and stays visible.
		if _, ok := q["rubric"]; i == 1 && !ok {
			t.Error("rubric should survive redaction")
		}
	}
}

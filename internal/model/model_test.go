package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestActorPredicates(t *testing.T) {
	tests := []struct {
		name        string
		roles       []Role
		admin       bool
		teacherish  bool
		studentOnly bool
	}{
		{"student", []Role{RoleStudent}, false, false, true},
		{"teacher", []Role{RoleTeacher}, false, true, false},
		{"admin", []Role{RoleAdmin}, true, true, false},
		{"student and teacher", []Role{RoleStudent, RoleTeacher}, false, true, false},
		{"no roles", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Actor{ID: 1, Roles: tt.roles}
			if got := a.IsAdmin(); got != tt.admin {
				t.Errorf("IsAdmin = %v, want %v", got, tt.admin)
			}
			if got := a.IsTeacherOrAdmin(); got != tt.teacherish {
				t.Errorf("IsTeacherOrAdmin = %v, want %v", got, tt.teacherish)
			}
			if got := a.IsStudentOnly(); got != tt.studentOnly {
				t.Errorf("IsStudentOnly = %v, want %v", got, tt.studentOnly)
			}
		})
	}
}

func TestTotalPoints(t *testing.T) {
	questions := []Question{
		{ID: 1, Points: 60},
		{ID: 2, Points: 40},
	}
	if got := TotalPoints(questions); got != 100 {
		t.Fatalf("TotalPoints = %d, want 100", got)
	}
	if got := TotalPoints(nil); got != 0 {
		t.Fatalf("TotalPoints(nil) = %d, want 0", got)
	}
}

func TestQuestionAnswerFieldsOmittedWhenEmpty(t *testing.T) {
	q := Question{ID: 1, Type: QuestionMultipleChoice, Text: "pick", Points: 10}
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"correctAnswer", "expectedAnswer", "explanation"} {
		if strings.Contains(string(data), field) {
			t.Errorf("empty %q should be omitted: %s", field, data)
		}
	}
}

func TestValidSection(t *testing.T) {
	for _, s := range ClassroomSections {
		if !ValidSection(s) {
			t.Errorf("ValidSection(%q) = false", s)
		}
	}
	if ValidSection("E") || ValidSection("a") {
		t.Error("unknown or lowercase sections must be invalid")
	}
}

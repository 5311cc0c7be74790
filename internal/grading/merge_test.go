package grading

import (
	"testing"

	"github.com/bilgen/okul/internal/model"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestMergeManualMixedScenario(t *testing.T) {
	// One auto-graded multiple-choice answer worth 60, one pending
	// open-ended answer worth up to 40, graded at 30.
	answers := []model.StudentAnswer{
		{QuestionID: 1, Answer: "A", IsCorrect: boolPtr(true), Points: intPtr(60)},
		{QuestionID: 2, Answer: "some text"},
	}
	entries := []GradeEntry{
		{QuestionID: 2, Points: 30, Comment: "good effort"},
	}

	merged, total := MergeManual(answers, entries)
	if total != 90 {
		t.Fatalf("total = %d, want 90", total)
	}

	open := merged[1]
	if open.Points == nil || *open.Points != 30 {
		t.Errorf("Points = %v, want 30", open.Points)
	}
	if open.IsCorrect == nil || !*open.IsCorrect {
		t.Errorf("IsCorrect = %v, want true (points > 0)", open.IsCorrect)
	}
	if open.TeacherComment != "good effort" {
		t.Errorf("TeacherComment = %q", open.TeacherComment)
	}

	// Auto-graded answer without an entry keeps its points.
	if *merged[0].Points != 60 {
		t.Errorf("auto-graded points = %d, want 60", *merged[0].Points)
	}
}

func TestMergeManualZeroPointsMeansIncorrect(t *testing.T) {
	answers := []model.StudentAnswer{{QuestionID: 1, Answer: "weak"}}
	entries := []GradeEntry{{QuestionID: 1, Points: 0}}

	merged, total := MergeManual(answers, entries)
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
	if merged[0].IsCorrect == nil || *merged[0].IsCorrect {
		t.Errorf("IsCorrect = %v, want false for zero points", merged[0].IsCorrect)
	}
}

func TestMergeManualOverwritesAutoGrade(t *testing.T) {
	// Re-grading is allowed: an entry replaces an existing award.
	answers := []model.StudentAnswer{
		{QuestionID: 1, Answer: "B", IsCorrect: boolPtr(false), Points: intPtr(0)},
	}
	entries := []GradeEntry{{QuestionID: 1, Points: 15, Comment: "partial credit"}}

	merged, total := MergeManual(answers, entries)
	if total != 15 {
		t.Fatalf("total = %d, want 15", total)
	}
	if !*merged[0].IsCorrect {
		t.Error("IsCorrect should flip to true when points are awarded")
	}
}

func TestMergeManualUngradedWithoutEntryContributesZero(t *testing.T) {
	answers := []model.StudentAnswer{
		{QuestionID: 1, Answer: "A", IsCorrect: boolPtr(true), Points: intPtr(20)},
		{QuestionID: 2, Answer: "skipped by teacher"},
	}

	merged, total := MergeManual(answers, nil)
	if total != 20 {
		t.Fatalf("total = %d, want 20", total)
	}
	if merged[1].Points != nil {
		t.Errorf("ungraded answer should keep nil points, got %v", merged[1].Points)
	}
}

func TestMergeManualIgnoresUnknownQuestion(t *testing.T) {
	answers := []model.StudentAnswer{{QuestionID: 1, Answer: "A", Points: intPtr(10), IsCorrect: boolPtr(true)}}
	entries := []GradeEntry{{QuestionID: 99, Points: 50}}

	_, total := MergeManual(answers, entries)
	if total != 10 {
		t.Fatalf("total = %d, want 10 (entry for unknown question ignored)", total)
	}
}

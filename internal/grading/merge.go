package grading

import "github.com/bilgen/okul/internal/model"

// GradeEntry is one teacher-supplied per-question award.
type GradeEntry struct {
	QuestionID int64  `json:"questionId"`
	Points     int    `json:"points"`
	Comment    string `json:"comment,omitempty"`
}

// MergeManual applies teacher-supplied awards to an already-submitted
// answer sequence and returns the merged sequence plus the recomputed
// total score.
//
// For each existing answer: a matching entry overwrites its points,
// correctness and comment — awarding more than zero points marks the
// answer correct, zero marks it incorrect (a documented convention, not a
// side effect). Without an entry, a previously auto-graded answer keeps
// its points and they fold into the new total; an answer with neither
// contributes zero and stays pending. Entries referencing no existing
// answer are ignored.
func MergeManual(answers []model.StudentAnswer, entries []GradeEntry) ([]model.StudentAnswer, int) {
	byQuestion := make(map[int64]GradeEntry, len(entries))
	for _, e := range entries {
		byQuestion[e.QuestionID] = e
	}

	merged := make([]model.StudentAnswer, 0, len(answers))
	total := 0

	for _, ans := range answers {
		if e, ok := byQuestion[ans.QuestionID]; ok {
			points := e.Points
			correct := points > 0
			ans.Points = &points
			ans.IsCorrect = &correct
			ans.TeacherComment = e.Comment
			total += points
		} else if ans.Points != nil {
			total += *ans.Points
		}
		merged = append(merged, ans)
	}

	return merged, total
}

// Package grading implements the homework grading engine: deterministic
// auto-scoring of multiple-choice answers at submission time, merging of
// teacher-supplied scores for open-ended answers, and redaction of
// answer-revealing question fields for student viewers. All functions are
// pure; persistence and state transitions live in the store.
package grading

import "github.com/bilgen/okul/internal/model"

// Result is the outcome of auto-grading a submitted answer sequence.
type Result struct {
	// Answers is the graded sequence: correctness and points populated for
	// multiple-choice answers, left nil for open-ended ones.
	Answers []model.StudentAnswer
	// AutoScore is the sum of points awarded to multiple-choice answers.
	AutoScore int
	// Pending is true when at least one answer needs manual grading, in
	// which case the homework stays SUBMITTED and its score unset.
	Pending bool
}

// questionFor locates the question an answer refers to: by id first, then
// by position in the exam's question sequence. The positional fallback
// matches the legacy behavior for answers submitted without usable ids;
// it returns nil when neither matches.
func questionFor(questions []model.Question, id int64, index int) *model.Question {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	if index >= 0 && index < len(questions) {
		return &questions[index]
	}
	return nil
}

// AutoGrade scores every multiple-choice answer in a submitted sequence
// against the exam's question set and leaves open-ended answers unscored.
// Multiple-choice comparison is exact equality on the correct-answer tag,
// case-sensitive with no normalization: full points on match, zero
// otherwise. Answers matching no question pass through untouched. The
// result is a pure function of its inputs.
func AutoGrade(questions []model.Question, answers []model.StudentAnswer) Result {
	res := Result{Answers: make([]model.StudentAnswer, 0, len(answers))}

	for i, ans := range answers {
		q := questionFor(questions, ans.QuestionID, i)
		if q == nil {
			res.Answers = append(res.Answers, ans)
			continue
		}

		switch q.Type {
		case model.QuestionMultipleChoice:
			correct := ans.Answer == q.CorrectAnswer
			points := 0
			if correct {
				points = q.Points
				res.AutoScore += q.Points
			}
			ans.IsCorrect = &correct
			ans.Points = &points
		default:
			// Open-ended: pending manual grading.
			ans.IsCorrect = nil
			ans.Points = nil
			res.Pending = true
		}
		res.Answers = append(res.Answers, ans)
	}

	return res
}

package grading

import (
	"github.com/samber/lo"

	"github.com/bilgen/okul/internal/model"
)

// Redact strips the answer-revealing fields (correct answer, expected
// answer, explanation) from every question. The fields are omitempty on
// the wire, so redacted questions serialize without them.
func Redact(questions []model.Question) []model.Question {
	return lo.Map(questions, func(q model.Question, _ int) model.Question {
		q.CorrectAnswer = ""
		q.ExpectedAnswer = ""
		q.Explanation = ""
		return q
	})
}

// VisibleQuestions applies the visibility rule for a question set served to
// a viewer. Teachers and admins always see the full set. A student sees
// redacted questions until their homework for the exam is submitted: both
// "no homework yet" and status ASSIGNED hide the answer key; SUBMITTED and
// GRADED reveal everything. Every read path that serves exam or homework
// questions to a student goes through here.
func VisibleQuestions(questions []model.Question, viewer model.Actor, hw *model.Homework) []model.Question {
	if !viewer.IsStudentOnly() {
		return questions
	}
	if hw == nil || hw.Status == model.HomeworkAssigned {
		return Redact(questions)
	}
	return questions
}

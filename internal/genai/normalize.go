package genai

import (
	"github.com/spf13/cast"

	"github.com/bilgen/okul/internal/model"
)

// RawQuestion is a question as the model returned it. Field types are
// deliberately loose: models sometimes emit ids as strings, points as
// floats, or omit fields entirely.
type RawQuestion struct {
	ID             any      `json:"id"`
	Type           string   `json:"type"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correctAnswer"`
	ExpectedAnswer string   `json:"expectedAnswer"`
	Rubric         string   `json:"rubric"`
	Points         any      `json:"points"`
	Explanation    string   `json:"explanation"`
}

const defaultPoints = 10

// Normalize coerces raw model output into the question schema. Missing or
// unparsable ids become the 1-based position, unknown types become
// multiple_choice, and missing or non-positive points become 10.
func Normalize(raw []RawQuestion) []model.Question {
	questions := make([]model.Question, 0, len(raw))
	for i, r := range raw {
		id := cast.ToInt(r.ID)
		if id <= 0 {
			id = i + 1
		}

		qt := model.QuestionType(r.Type)
		if qt != model.QuestionMultipleChoice && qt != model.QuestionOpenEnded {
			qt = model.QuestionMultipleChoice
		}

		points := cast.ToInt(r.Points)
		if points <= 0 {
			points = defaultPoints
		}

		q := model.Question{
			ID:          int64(id),
			Type:        qt,
			Text:        r.Question,
			Points:      points,
			Explanation: r.Explanation,
		}
		switch qt {
		case model.QuestionMultipleChoice:
			q.Options = r.Options
			q.CorrectAnswer = r.CorrectAnswer
		case model.QuestionOpenEnded:
			q.ExpectedAnswer = r.ExpectedAnswer
			q.Rubric = r.Rubric
		}
		questions = append(questions, q)
	}
	return questions
}

package genai

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an experienced school teacher who writes exam questions. " +
	"You always respond with a single JSON object and nothing else."

func buildExamPrompt(p Params) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write %d exam questions for a grade %d class.\n\n", p.QuestionCount, p.Grade))
	sb.WriteString("SUBJECT: " + p.Subject + "\n")
	sb.WriteString("TOPIC: " + p.Topic + "\n\n")

	sb.WriteString("QUESTION TYPES:\n")
	switch p.QuestionType {
	case "multiple_choice":
		sb.WriteString("- Every question must be multiple_choice with exactly 4 options.\n")
	case "open_ended":
		sb.WriteString("- Every question must be open_ended.\n")
	default:
		sb.WriteString("- Mix multiple_choice questions (exactly 4 options each) and open_ended questions.\n")
	}

	sb.WriteString("\nINSTRUCTIONS:\n")
	sb.WriteString("- Questions must be age-appropriate for the given grade.\n")
	sb.WriteString("- For multiple_choice questions, correctAnswer must be exactly one of the options.\n")
	sb.WriteString("- For open_ended questions, provide expectedAnswer and a short grading rubric.\n")
	sb.WriteString("- Assign points per question; points across all questions should sum to 100.\n")
	sb.WriteString("- Include a short explanation of the correct answer for every question.\n")

	sb.WriteString("\nRespond ONLY with a JSON object in this shape:\n")
	sb.WriteString(`{"questions": [{"id": 1, "type": "multiple_choice", "question": "...", "options": ["...", "...", "...", "..."], "correctAnswer": "...", "points": 10, "explanation": "..."}, {"id": 2, "type": "open_ended", "question": "...", "expectedAnswer": "...", "rubric": "...", "points": 10, "explanation": "..."}]}`)
	sb.WriteString("\n")

	return sb.String()
}

package store

import (
	"fmt"

	"github.com/bilgen/okul/internal/model"
)

// ExportExamResults builds export-ready per-student results for one exam.
func (s *Store) ExportExamResults(examID int64) (*model.ExamExport, error) {
	exam, err := s.GetExam(examID)
	if err != nil {
		return nil, fmt.Errorf("get exam %d: %w", examID, err)
	}
	if exam == nil {
		return nil, fmt.Errorf("exam %d not found", examID)
	}

	homeworks, err := s.ListHomeworksByTeacher(nil, "", examID)
	if err != nil {
		return nil, fmt.Errorf("list homeworks: %w", err)
	}

	export := &model.ExamExport{
		ExamID:      exam.ID,
		Title:       exam.Title,
		Grade:       exam.Grade,
		SubjectName: exam.SubjectName,
		TotalPoints: exam.TotalPoints,
	}

	for _, hw := range homeworks {
		student, err := s.GetUserByID(hw.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get student %d: %w", hw.StudentID, err)
		}

		result := model.StudentResult{
			StudentID:   hw.StudentID,
			Status:      hw.Status,
			Score:       hw.Score,
			Feedback:    hw.Feedback,
			SubmittedAt: hw.SubmittedAt,
			GradedAt:    hw.GradedAt,
		}
		if student != nil {
			result.Name = student.Name
			result.Email = student.Email
		}

		for _, ans := range hw.Answers {
			ar := model.AnswerResult{
				QuestionID:     ans.QuestionID,
				Answer:         ans.Answer,
				IsCorrect:      ans.IsCorrect,
				Points:         ans.Points,
				TeacherComment: ans.TeacherComment,
			}
			for _, q := range exam.Questions {
				if q.ID == ans.QuestionID {
					ar.Question = q.Text
					ar.MaxPoints = q.Points
					break
				}
			}
			result.Answers = append(result.Answers, ar)
		}

		export.Results = append(export.Results, result)
	}

	return export, nil
}

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bilgen/okul/internal/apperr"
	"github.com/bilgen/okul/internal/genai"
	"github.com/bilgen/okul/internal/grading"
	"github.com/bilgen/okul/internal/model"
)

// examForActor loads an exam from the URL parameter; visibility is the
// caller's concern.
func (h *Handler) examForActor(r *http.Request) (*model.Exam, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "examID"), 10, 64)
	if err != nil {
		return nil, apperr.Validation("InvalidRequest")
	}
	exam, err := h.store.GetExam(id)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, apperr.NotFound("ExamNotFound")
	}
	return exam, nil
}

type generateExamRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Subject       string           `json:"subject"`
	Grade         int              `json:"grade"`
	Topic         string           `json:"topic"`
	QuestionCount int              `json:"questionCount"`
	QuestionType  string           `json:"questionType"`
	Difficulty    model.Difficulty `json:"difficulty"`
	Duration      *int             `json:"duration"`
}

func (req generateExamRequest) validate() error {
	if req.Subject == "" || req.Topic == "" {
		return apperr.Validation("ValidationFailed")
	}
	if req.Grade < 1 || req.Grade > 8 {
		return apperr.Validation("ValidationFailed")
	}
	if req.QuestionCount < 1 || req.QuestionCount > 20 {
		return apperr.Validation("ValidationFailed")
	}
	switch req.QuestionType {
	case "multiple_choice", "open_ended", "mixed":
	default:
		return apperr.Validation("ValidationFailed")
	}
	if !model.ValidDifficulty(req.Difficulty) {
		return apperr.Validation("ValidationFailed")
	}
	return nil
}

func (h *Handler) handleGenerateExam(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	var req generateExamRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	questions, err := h.genai.GenerateQuestions(r.Context(), genai.Params{
		Subject:       req.Subject,
		Grade:         req.Grade,
		Topic:         req.Topic,
		QuestionCount: req.QuestionCount,
		QuestionType:  req.QuestionType,
	})
	if err != nil {
		writeError(w, r, apperr.Upstream("GenerationFailed", err))
		return
	}

	title := req.Title
	if title == "" {
		title = req.Subject + ": " + req.Topic
	}
	exam := model.Exam{
		Title:       title,
		Description: req.Description,
		Grade:       req.Grade,
		SubjectName: req.Subject,
		Topic:       req.Topic,
		Questions:   questions,
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		CreatedByID: actor.ID,
	}
	id, err := h.store.CreateExam(exam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.store.GetExam(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("exam generated", "exam_id", id, "subject", req.Subject, "questions", len(questions))
	writeData(w, http.StatusCreated, created)
}

type examRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Grade       int                 `json:"grade"`
	Subject     string              `json:"subject"`
	Topic       string              `json:"topic"`
	Questions   []genai.RawQuestion `json:"questions"`
	Duration    *int                `json:"duration"`
	Difficulty  model.Difficulty    `json:"difficulty"`
}

func (req examRequest) validate() error {
	if req.Title == "" || req.Subject == "" {
		return apperr.Validation("ValidationFailed")
	}
	if req.Grade < 1 || req.Grade > 8 {
		return apperr.Validation("ValidationFailed")
	}
	if len(req.Questions) == 0 || len(req.Questions) > 20 {
		return apperr.Validation("ValidationFailed")
	}
	if !model.ValidDifficulty(req.Difficulty) {
		return apperr.Validation("ValidationFailed")
	}
	return nil
}

func (h *Handler) handleCreateExam(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	var req examRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	// Manually authored question sets pass through the same shape
	// normalization as AI-generated ones.
	exam := model.Exam{
		Title:       req.Title,
		Description: req.Description,
		Grade:       req.Grade,
		SubjectName: req.Subject,
		Topic:       req.Topic,
		Questions:   genai.Normalize(req.Questions),
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		CreatedByID: actor.ID,
	}
	id, err := h.store.CreateExam(exam)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.store.GetExam(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("exam created", "exam_id", id, "title", req.Title)
	writeData(w, http.StatusCreated, created)
}

func (h *Handler) handleListExams(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	if actor.IsStudentOnly() {
		exams, err := h.store.ListExams(nil, model.ExamPublished)
		if err != nil {
			writeError(w, r, err)
			return
		}
		for i := range exams {
			hw, err := h.store.GetHomeworkForStudent(exams[i].ID, actor.ID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			exams[i].Questions = grading.VisibleQuestions(exams[i].Questions, actor, hw)
		}
		writeData(w, http.StatusOK, exams)
		return
	}

	var createdBy *int64
	if !actor.IsAdmin() {
		createdBy = &actor.ID
	}
	exams, err := h.store.ListExams(createdBy, "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, exams)
}

func (h *Handler) handleGetExam(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	exam, err := h.examForActor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if actor.IsStudentOnly() {
		hw, err := h.store.GetHomeworkForStudent(exam.ID, actor.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		exam.Questions = grading.VisibleQuestions(exam.Questions, actor, hw)
	}
	writeData(w, http.StatusOK, exam)
}

func (h *Handler) handleUpdateExam(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	exam, err := h.examForActor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !actor.IsAdmin() && exam.CreatedByID != actor.ID {
		writeError(w, r, apperr.Forbidden("Forbidden"))
		return
	}

	var req examRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	exam.Title = req.Title
	exam.Description = req.Description
	exam.Grade = req.Grade
	exam.SubjectName = req.Subject
	exam.Topic = req.Topic
	exam.Questions = genai.Normalize(req.Questions)
	exam.Duration = req.Duration
	exam.Difficulty = req.Difficulty
	if err := h.store.UpdateExam(*exam); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.store.GetExam(exam.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	exam, err := h.examForActor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !actor.IsAdmin() && exam.CreatedByID != actor.ID {
		writeError(w, r, apperr.Forbidden("Forbidden"))
		return
	}

	count, err := h.store.HomeworkCountForExam(exam.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if count > 0 {
		writeError(w, r, apperr.Conflict("ExamHasHomework"))
		return
	}

	if err := h.store.DeleteExam(exam.ID); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("exam deleted", "exam_id", exam.ID)
	writeData(w, http.StatusOK, nil)
}

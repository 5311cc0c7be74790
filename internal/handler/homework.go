package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bilgen/okul/internal/apperr"
	"github.com/bilgen/okul/internal/grading"
	"github.com/bilgen/okul/internal/model"
	"github.com/bilgen/okul/internal/store"
)

// homeworkView pairs a homework with its exam for detail and list responses.
type homeworkView struct {
	Homework model.Homework `json:"homework"`
	Exam     *model.Exam    `json:"exam,omitempty"`
}

func (h *Handler) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, students)
}

type assignRequest struct {
	ExamID      int64      `json:"examId"`
	StudentIDs  []int64    `json:"studentIds"`
	ClassroomID *int64     `json:"classroomId"`
	DueDate     *time.Time `json:"dueDate"`
}

// assignOutcome is one student's result of a fanout: either a created
// homework id or a skip reason.
type assignOutcome struct {
	StudentID  int64  `json:"studentId"`
	HomeworkID *int64 `json:"homeworkId,omitempty"`
	Skipped    string `json:"skipped,omitempty"`
}

type assignResponse struct {
	Assigned   []assignOutcome  `json:"assigned"`
	Skipped    []assignOutcome  `json:"skipped"`
	ExamStatus model.ExamStatus `json:"examStatus"`
}

// handleAssignHomework fans an exam out to a set of students, supplied
// either as an explicit id list or as a classroom roster. Each per-student
// creation is attempted independently; a duplicate (exam, student) pair is
// reported as a skip, never an aborted batch. The first successful fanout
// against a DRAFT exam publishes it.
func (h *Handler) handleAssignHomework(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	var req assignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	exam, err := h.store.GetExam(req.ExamID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if exam == nil {
		writeError(w, r, apperr.NotFound("ExamNotFound"))
		return
	}

	// A classroom target replaces any explicit student list: the roster is
	// the assignment set.
	candidates := req.StudentIDs
	if req.ClassroomID != nil {
		classroom, err := h.store.GetClassroom(*req.ClassroomID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if classroom == nil {
			writeError(w, r, apperr.NotFound("ClassroomNotFound"))
			return
		}
		if !actor.IsAdmin() && classroom.TeacherID != actor.ID {
			writeError(w, r, apperr.Forbidden("Forbidden"))
			return
		}
		roster, err := h.store.ListClassroomStudents(classroom.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		candidates = nil
		for _, s := range roster {
			candidates = append(candidates, s.ID)
		}
	}
	if len(candidates) == 0 {
		writeError(w, r, apperr.Validation("NoStudentsSelected"))
		return
	}

	// Ids not holding the STUDENT capability are silently excluded.
	students, err := h.store.FilterStudents(candidates)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(students) == 0 {
		writeError(w, r, apperr.Validation("NoValidStudents"))
		return
	}

	resp := assignResponse{
		Assigned:   []assignOutcome{},
		Skipped:    []assignOutcome{},
		ExamStatus: exam.Status,
	}
	for _, student := range students {
		id, err := h.store.CreateHomework(exam.ID, student.ID, actor.ID, req.DueDate)
		switch {
		case err == nil:
			resp.Assigned = append(resp.Assigned, assignOutcome{StudentID: student.ID, HomeworkID: &id})
		case errors.Is(err, store.ErrAlreadyAssigned):
			resp.Skipped = append(resp.Skipped, assignOutcome{StudentID: student.ID, Skipped: "already_assigned"})
		default:
			slog.Error("homework creation failed", "exam_id", exam.ID, "student_id", student.ID, "error", err)
			resp.Skipped = append(resp.Skipped, assignOutcome{StudentID: student.ID, Skipped: "error"})
		}
	}

	if exam.Status == model.ExamDraft && len(resp.Assigned) > 0 {
		if err := h.store.PublishExam(exam.ID); err != nil {
			writeError(w, r, err)
			return
		}
		resp.ExamStatus = model.ExamPublished
	}

	slog.Info("homework assigned",
		"exam_id", exam.ID,
		"assigned", len(resp.Assigned),
		"skipped", len(resp.Skipped),
		"teacher_id", actor.ID)
	writeMessage(w, r, http.StatusCreated, "StudentsAssigned", resp)
}

func (h *Handler) handleTeacherHomeworks(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	var teacherID *int64
	if !actor.IsAdmin() {
		teacherID = &actor.ID
	}
	status := model.HomeworkStatus(r.URL.Query().Get("status"))
	var examID int64
	if raw := r.URL.Query().Get("examId"); raw != "" {
		examID, _ = strconv.ParseInt(raw, 10, 64)
	}

	homeworks, err := h.store.ListHomeworksByTeacher(teacherID, status, examID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, homeworks)
}

func (h *Handler) handleStudentHomeworks(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())
	if !actor.HasRole(model.RoleStudent) {
		writeError(w, r, apperr.Forbidden("Forbidden"))
		return
	}

	status := model.HomeworkStatus(r.URL.Query().Get("status"))
	homeworks, err := h.store.ListHomeworksByStudent(actor.ID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]homeworkView, 0, len(homeworks))
	for i := range homeworks {
		exam, err := h.store.GetExam(homeworks[i].ExamID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if exam != nil {
			exam.Questions = grading.VisibleQuestions(exam.Questions, actor, &homeworks[i])
		}
		views = append(views, homeworkView{Homework: homeworks[i], Exam: exam})
	}
	writeData(w, http.StatusOK, views)
}

// homeworkForActor loads a homework and enforces that the caller is its
// student, its assigning teacher, or an admin.
func (h *Handler) homeworkForActor(r *http.Request, actor model.Actor) (*model.Homework, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "homeworkID"), 10, 64)
	if err != nil {
		return nil, apperr.Validation("InvalidRequest")
	}
	hw, err := h.store.GetHomework(id)
	if err != nil {
		return nil, err
	}
	if hw == nil {
		return nil, apperr.NotFound("HomeworkNotFound")
	}
	if actor.ID != hw.StudentID && actor.ID != hw.TeacherID && !actor.IsAdmin() {
		return nil, apperr.Forbidden("Forbidden")
	}
	return hw, nil
}

func (h *Handler) handleGetHomework(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	hw, err := h.homeworkForActor(r, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	exam, err := h.store.GetExam(hw.ExamID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if exam != nil && actor.IsStudentOnly() {
		exam.Questions = grading.VisibleQuestions(exam.Questions, actor, hw)
	}
	writeData(w, http.StatusOK, homeworkView{Homework: *hw, Exam: exam})
}

type submitRequest struct {
	Answers []submitAnswer `json:"answers"`
}

type submitAnswer struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

// handleSubmitHomework validates and accepts a student's answer sequence,
// auto-grades the multiple-choice portion, and transitions the homework to
// SUBMITTED (manual grading pending) or straight to GRADED. The status
// transition is a single conditional update so concurrent submissions
// cannot both pass the ASSIGNED check.
func (h *Handler) handleSubmitHomework(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "homeworkID"), 10, 64)
	if err != nil {
		writeError(w, r, apperr.Validation("InvalidRequest"))
		return
	}
	hw, err := h.store.GetHomework(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if hw == nil {
		writeError(w, r, apperr.NotFound("HomeworkNotFound"))
		return
	}
	if actor.ID != hw.StudentID {
		writeError(w, r, apperr.Forbidden("Forbidden"))
		return
	}
	if hw.Status != model.HomeworkAssigned {
		writeError(w, r, apperr.Conflict("AlreadySubmitted"))
		return
	}
	if hw.DueDate != nil && time.Now().After(*hw.DueDate) {
		writeError(w, r, apperr.Conflict("DueDatePassed"))
		return
	}

	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, r, apperr.Validation("NoAnswers"))
		return
	}

	exam, err := h.store.GetExam(hw.ExamID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if exam == nil {
		writeError(w, r, apperr.NotFound("ExamNotFound"))
		return
	}

	answers := make([]model.StudentAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, model.StudentAnswer{QuestionID: a.QuestionID, Answer: a.Answer})
	}

	result := grading.AutoGrade(exam.Questions, answers)
	status := model.HomeworkGraded
	var score *int
	if result.Pending {
		status = model.HomeworkSubmitted
	} else {
		score = &result.AutoScore
	}

	updated, err := h.store.SubmitHomework(hw.ID, result.Answers, status, score)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !updated {
		// Lost the race against a concurrent submission.
		writeError(w, r, apperr.Conflict("AlreadySubmitted"))
		return
	}

	hw, err = h.store.GetHomework(hw.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("homework submitted", "homework_id", hw.ID, "student_id", actor.ID, "status", hw.Status)
	writeData(w, http.StatusOK, hw)
}

type gradeRequest struct {
	Grades   []grading.GradeEntry `json:"grades"`
	Feedback string               `json:"feedback"`
}

// handleGradeHomework applies teacher-supplied scores to a submitted
// homework and recomputes the total. Re-grading an already GRADED homework
// is allowed; grading one that was never submitted is not.
func (h *Handler) handleGradeHomework(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "homeworkID"), 10, 64)
	if err != nil {
		writeError(w, r, apperr.Validation("InvalidRequest"))
		return
	}
	hw, err := h.store.GetHomework(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if hw == nil {
		writeError(w, r, apperr.NotFound("HomeworkNotFound"))
		return
	}
	if actor.ID != hw.TeacherID && !actor.IsAdmin() {
		writeError(w, r, apperr.Forbidden("Forbidden"))
		return
	}
	if hw.Status == model.HomeworkAssigned {
		writeError(w, r, apperr.Conflict("NotSubmitted"))
		return
	}

	var req gradeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	answers, total := grading.MergeManual(hw.Answers, req.Grades)
	if err := h.store.GradeHomework(hw.ID, answers, total, req.Feedback); err != nil {
		writeError(w, r, err)
		return
	}

	hw, err = h.store.GetHomework(hw.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("homework graded", "homework_id", hw.ID, "score", total, "teacher_id", actor.ID)
	writeData(w, http.StatusOK, hw)
}

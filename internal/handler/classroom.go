package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bilgen/okul/internal/apperr"
	"github.com/bilgen/okul/internal/model"
	"github.com/bilgen/okul/internal/store"
)

type classroomRequest struct {
	Grade       int    `json:"grade"`
	Section     string `json:"section"`
	Description string `json:"description"`
}

func (req classroomRequest) validate() error {
	if req.Grade < 1 || req.Grade > 8 {
		return apperr.Validation("ValidationFailed")
	}
	if !model.ValidSection(req.Section) {
		return apperr.Validation("ValidationFailed")
	}
	return nil
}

// classroomForActor loads a classroom and enforces ownership: teachers only
// reach their own classrooms, admins reach any.
func (h *Handler) classroomForActor(r *http.Request, actor model.Actor) (*model.Classroom, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "classroomID"), 10, 64)
	if err != nil {
		return nil, apperr.Validation("InvalidRequest")
	}
	classroom, err := h.store.GetClassroom(id)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, apperr.NotFound("ClassroomNotFound")
	}
	if !actor.IsAdmin() && classroom.TeacherID != actor.ID {
		return nil, apperr.Forbidden("Forbidden")
	}
	return classroom, nil
}

func (h *Handler) handleCreateClassroom(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	var req classroomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	classroom := model.Classroom{
		Name:        fmt.Sprintf("%d-%s", req.Grade, req.Section),
		Grade:       req.Grade,
		Section:     req.Section,
		Description: req.Description,
		TeacherID:   actor.ID,
	}
	id, err := h.store.CreateClassroom(classroom)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.store.GetClassroom(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("classroom created", "classroom_id", id, "name", classroom.Name, "teacher_id", actor.ID)
	writeData(w, http.StatusCreated, created)
}

func (h *Handler) handleListClassrooms(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	var teacherID *int64
	if !actor.IsAdmin() {
		teacherID = &actor.ID
	}
	classrooms, err := h.store.ListClassrooms(teacherID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, classrooms)
}

func (h *Handler) handleGetClassroom(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	classroom, err := h.classroomForActor(r, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, classroom)
}

func (h *Handler) handleUpdateClassroom(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	classroom, err := h.classroomForActor(r, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req classroomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	classroom.Grade = req.Grade
	classroom.Section = req.Section
	classroom.Name = fmt.Sprintf("%d-%s", req.Grade, req.Section)
	classroom.Description = req.Description
	if err := h.store.UpdateClassroom(*classroom); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, classroom)
}

func (h *Handler) handleDeleteClassroom(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	classroom, err := h.classroomForActor(r, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.DeleteClassroom(classroom.ID); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("classroom deleted", "classroom_id", classroom.ID)
	writeData(w, http.StatusOK, nil)
}

func (h *Handler) handleListClassroomStudents(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	classroom, err := h.classroomForActor(r, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	students, err := h.store.ListClassroomStudents(classroom.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, students)
}

type addStudentRequest struct {
	StudentID int64 `json:"studentId"`
}

func (h *Handler) handleAddClassroomStudent(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	classroom, err := h.classroomForActor(r, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addStudentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	students, err := h.store.FilterStudents([]int64{req.StudentID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(students) == 0 {
		writeError(w, r, apperr.NotFound("StudentNotFound"))
		return
	}

	if err := h.store.AddClassroomStudent(classroom.ID, req.StudentID); err != nil {
		if errors.Is(err, store.ErrAlreadyMember) {
			writeError(w, r, apperr.Conflict("AlreadyMember"))
			return
		}
		writeError(w, r, err)
		return
	}
	slog.Info("student added to classroom", "classroom_id", classroom.ID, "student_id", req.StudentID)
	writeData(w, http.StatusCreated, nil)
}

func (h *Handler) handleRemoveClassroomStudent(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	classroom, err := h.classroomForActor(r, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	studentID, err := strconv.ParseInt(chi.URLParam(r, "studentID"), 10, 64)
	if err != nil {
		writeError(w, r, apperr.Validation("InvalidRequest"))
		return
	}

	if err := h.store.RemoveClassroomStudent(classroom.ID, studentID); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// Package handler implements the JSON HTTP API: authentication, user and
// classroom administration, exam authoring, and the homework lifecycle
// (assignment fanout, submission with auto-grading, manual grading).
package handler

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bilgen/okul/internal/genai"
	"github.com/bilgen/okul/internal/model"
	"github.com/bilgen/okul/internal/store"
)

// Config holds handler-level settings.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	genai  genai.Generator
	config Config
}

// New creates a new Handler.
func New(s *store.Store, g genai.Generator, cfg Config) (*Handler, error) {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &Handler{store: s, genai: g, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Get("/auth/me", h.handleMe)

			r.Route("/users", func(r chi.Router) {
				r.Use(requireRole(model.RoleAdmin))
				r.Get("/", h.handleListUsers)
				r.Post("/", h.handleCreateUser)
				r.Get("/{userID}", h.handleGetUser)
			})

			r.Route("/classrooms", func(r chi.Router) {
				r.Use(requireRole(model.RoleTeacher, model.RoleAdmin))
				r.Get("/", h.handleListClassrooms)
				r.Post("/", h.handleCreateClassroom)
				r.Get("/{classroomID}", h.handleGetClassroom)
				r.Put("/{classroomID}", h.handleUpdateClassroom)
				r.Delete("/{classroomID}", h.handleDeleteClassroom)
				r.Get("/{classroomID}/students", h.handleListClassroomStudents)
				r.Post("/{classroomID}/students", h.handleAddClassroomStudent)
				r.Delete("/{classroomID}/students/{studentID}", h.handleRemoveClassroomStudent)
			})

			r.Route("/exams", func(r chi.Router) {
				r.Get("/", h.handleListExams)
				r.Get("/{examID}", h.handleGetExam)
				r.Group(func(r chi.Router) {
					r.Use(requireRole(model.RoleTeacher, model.RoleAdmin))
					r.Post("/generate", h.handleGenerateExam)
					r.Post("/", h.handleCreateExam)
					r.Put("/{examID}", h.handleUpdateExam)
					r.Delete("/{examID}", h.handleDeleteExam)
				})
			})

			r.Route("/homework", func(r chi.Router) {
				r.Get("/{homeworkID}", h.handleGetHomework)
				r.Post("/{homeworkID}/submit", h.handleSubmitHomework)
				r.Get("/student", h.handleStudentHomeworks)
				r.Group(func(r chi.Router) {
					r.Use(requireRole(model.RoleTeacher, model.RoleAdmin))
					r.Get("/students", h.handleListStudents)
					r.Post("/assign", h.handleAssignHomework)
					r.Get("/teacher", h.handleTeacherHomeworks)
					r.Post("/{homeworkID}/grade", h.handleGradeHomework)
				})
			})
		})
	})
}

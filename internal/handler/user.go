package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bilgen/okul/internal/apperr"
	"github.com/bilgen/okul/internal/model"
	"github.com/bilgen/okul/internal/store"
)

type createUserRequest struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Roles    []model.Role `json:"roles"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || len(req.Roles) == 0 {
		writeError(w, r, apperr.Validation("ValidationFailed"))
		return
	}
	for _, role := range req.Roles {
		switch role {
		case model.RoleStudent, model.RoleTeacher, model.RoleAdmin:
		default:
			writeError(w, r, apperr.Validation("ValidationFailed"))
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.store.CreateUser(model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        req.Roles,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			writeError(w, r, apperr.Conflict("EmailTaken"))
			return
		}
		writeError(w, r, err)
		return
	}

	user, err := h.store.GetUserByID(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user created", "user_id", id, "email", req.Email, "roles", req.Roles)
	writeData(w, http.StatusCreated, user)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, users)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, r, apperr.Validation("InvalidRequest"))
		return
	}

	user, err := h.store.GetUserByID(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, apperr.NotFound("UserNotFound"))
		return
	}
	writeData(w, http.StatusOK, user)
}

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/bilgen/okul/internal/apperr"
	"github.com/bilgen/okul/internal/model"
)

// tokenClaims are the JWT claims carried by an access token.
type tokenClaims struct {
	UserID int64        `json:"userId"`
	Email  string       `json:"email"`
	Roles  []model.Role `json:"roles"`
	jwt.RegisteredClaims
}

func (h *Handler) issueToken(u *model.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: u.ID,
		Email:  u.Email,
		Roles:  u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.config.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func (h *Handler) parseToken(raw string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(h.config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// requireAuth is middleware that verifies the Bearer token and stores the
// authenticated actor in the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" {
			writeError(w, r, apperr.Unauthorized("TokenRequired"))
			return
		}
		raw, found := strings.CutPrefix(authz, "Bearer ")
		if !found || raw == "" {
			writeError(w, r, apperr.Unauthorized("TokenRequired"))
			return
		}

		claims, err := h.parseToken(raw)
		if err != nil {
			slog.Warn("token rejected", "error", err)
			writeError(w, r, apperr.Unauthorized("InvalidToken"))
			return
		}

		actor := model.Actor{ID: claims.UserID, Email: claims.Email, Roles: claims.Roles}
		ctx := model.ContextWithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole returns middleware that checks the actor holds one of the
// allowed roles.
func requireRole(allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := model.ActorFromContext(r.Context())
			if !ok {
				writeError(w, r, apperr.Unauthorized("TokenRequired"))
				return
			}
			for _, role := range allowed {
				if actor.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, r, apperr.Forbidden("Forbidden"))
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, apperr.Validation("LoginError"))
		return
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, apperr.Unauthorized("LoginError"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, r, apperr.Unauthorized("LoginError"))
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	writeData(w, http.StatusOK, loginResponse{Token: token, User: *user})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := model.ActorFromContext(r.Context())

	user, err := h.store.GetUserByID(actor.ID)
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

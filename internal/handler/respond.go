package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bilgen/okul/internal/apperr"
	appI18n "github.com/bilgen/okul/internal/i18n"
)

// envelope is the uniform response body: success flag, human-readable
// localized message, and an optional payload.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msgID string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: appI18n.T(r.Context(), msgID), Data: data})
}

// writeError maps an application error to an HTTP status and a localized
// message. Unclassified errors become opaque 500s.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		slog.Error("unhandled error", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Message: appI18n.T(r.Context(), "InternalError"),
		})
		return
	}

	status := http.StatusInternalServerError
	switch ae.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindUpstream:
		status = http.StatusBadGateway
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	if ae.Err != nil {
		slog.Warn("request failed", "kind", ae.Kind, "msg_id", ae.MsgID, "error", ae.Err, "path", r.URL.Path)
	}
	writeJSON(w, status, envelope{Message: appI18n.T(r.Context(), ae.MsgID)})
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, MsgID: "InvalidRequest", Err: err}
	}
	return nil
}

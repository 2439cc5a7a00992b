package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"spendbook/database"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// storeError maps the store's error taxonomy to HTTP statuses:
// validation 400, missing id 404, everything else 500. Internal detail
// only leaves the process in debug mode.
func (h *Handler) storeError(w http.ResponseWriter, err error) {
	var verr *database.ValidationError
	if errors.As(err, &verr) {
		h.writeError(w, http.StatusBadRequest, verr.Msg)
		return
	}
	if errors.Is(err, database.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, database.ErrNotFound.Error())
		return
	}

	h.logger.Error("storage failure", "error", err)
	msg := "internal server error"
	if h.debug {
		msg = err.Error()
	}
	h.writeError(w, http.StatusInternalServerError, msg)
}

// NotFound is the router's fallback for unknown paths.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
}

// MethodNotAllowed handles known paths hit with the wrong verb.
func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
}

package chore

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeServiceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrQuotaExceeded):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		writeErr(w, http.StatusNotFound, "not found")
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// /api/chores  (collection)
func (h *Handler) ChoresRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		list, err := h.svc.List(ListFilter{
			From: strings.TrimSpace(q.Get("from")),
			To:   strings.TrimSpace(q.Get("to")),
		})
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var in Draft
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		c, err := h.svc.Create(in)
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// /api/chores/{id}
func (h *Handler) ChoresSub(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/chores/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.svc.Get(id)
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodPatch:
		var p Patch
		if err := decodeJSON(r, &p); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		c, err := h.svc.Update(id, p)
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		if err := h.svc.Delete(id); err != nil {
			writeServiceErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

package journal

import (
	"encoding/json"
	"errors"
	"io"
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

func writeServiceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrEmptyComment),
		errors.Is(err, ErrPhotoTooLarge),
		errors.Is(err, ErrBadPhotoType):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUploadFailed),
		errors.Is(err, ErrUploaderNotConfigured):
		writeErr(w, http.StatusBadGateway, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// /api/comments  (collection)
func (h *Handler) CommentsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.svc.List()
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		h.createComment(w, r)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// createComment accepts a multipart form: date, text, name, anonymous,
// plus an optional "photo" file part.
func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	// One extra byte over the limit so the service can report too-large
	// uploads itself instead of a generic parse failure.
	limit := h.svc.cfg.MaxPhotoBytes + 1
	if err := r.ParseMultipartForm(limit); err != nil {
		writeErr(w, http.StatusBadRequest, "bad multipart form")
		return
	}

	draft := Draft{
		Date:      r.FormValue("date"),
		Name:      r.FormValue("name"),
		Anonymous: parseBool(r.FormValue("anonymous")),
		Text:      r.FormValue("text"),
	}

	var attachment *Photo
	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, limit))
		if err != nil {
			writeErr(w, http.StatusBadRequest, "could not read photo")
			return
		}
		ct := header.Header.Get("Content-Type")
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		attachment = &Photo{
			Data:        data,
			ContentType: ct,
			Filename:    header.Filename,
		}
	case errors.Is(err, http.ErrMissingFile):
		// no attachment supplied
	default:
		writeErr(w, http.StatusBadRequest, "bad photo part")
		return
	}

	c, err := h.svc.Create(r.Context(), draft, attachment)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mohamadafzal06/todokv/internal/todo"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc    *todo.Service
	logger *log.Logger
}

func NewHandler(svc *todo.Service, logger *log.Logger) Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return Handler{
		svc:    svc,
		logger: logger,
	}
}

func (h Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, "Todo Api"); err != nil {
		h.logger.Printf("write response: %v", err)
	}
}

func (h Handler) todoCreateHandler(w http.ResponseWriter, r *http.Request) {
	t, err := todo.DecodeTodo(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err = h.svc.Create(r.Context(), t)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, t)
}

func (h Handler) todoGetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := todo.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, t)
}

func (h Handler) todoListHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, todos)
}

func (h Handler) todoUpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := todo.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := todo.DecodeUpdate(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	t, err := h.svc.Update(r.Context(), id, u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, t)
}

func (h Handler) todoDeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := todo.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Printf("encode response: %v", err)
	}
}

func (h Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, err.Error(), status)
}

// statusCode maps an error kind onto the response status.
func statusCode(err error) int {
	switch todo.KindOf(err) {
	case todo.KindValidation:
		return http.StatusBadRequest
	case todo.KindNotFound:
		return http.StatusNotFound
	case todo.KindBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Package api exposes the todo service over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

// NewRouter registers the todo routes. Requests that match no route, by path
// or by method, get the default 404 response.
func NewRouter(h Handler) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: h.logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.HandleFunc("/", h.indexHandler).Methods("GET")
	r.HandleFunc("/todo", h.todoListHandler).Methods("GET")
	r.HandleFunc("/todo", h.todoCreateHandler).Methods("POST")
	r.HandleFunc("/todo/{id}", h.todoGetHandler).Methods("GET")
	r.HandleFunc("/todo/{id}", h.todoUpdateHandler).Methods("PUT")
	r.HandleFunc("/todo/{id}", h.todoDeleteHandler).Methods("DELETE")

	r.MethodNotAllowedHandler = http.NotFoundHandler()

	return r
}

package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, h *Handler) {
	sub := r.PathPrefix("/api/auth").Subrouter()
	sub.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	sub.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	sub.HandleFunc("/user", h.User).Methods(http.MethodGet)
	sub.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
}

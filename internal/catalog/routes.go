package catalog

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/api/rooms", h.Rooms).Methods(http.MethodGet)
	r.HandleFunc("/api/room", h.Room).Methods(http.MethodGet)
	r.HandleFunc("/api/testimonials", h.Testimonials).Methods(http.MethodGet)
	r.HandleFunc("/api/testimonials", h.SubmitTestimonial).Methods(http.MethodPost)
	r.HandleFunc("/api/testimonials/categories", h.TestimonialCategories).Methods(http.MethodGet)
}

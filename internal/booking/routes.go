package booking

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/api/availability", h.Availability).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings/my-bookings", h.MyBookings).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings", h.ListByEmail).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/booking", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/booking", h.Update).Methods(http.MethodPut)
}

package spa

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, h *Handler) {
	sub := r.PathPrefix("/api/spa").Subrouter()
	sub.HandleFunc("/categories", h.Categories).Methods(http.MethodGet)
	sub.HandleFunc("/services", h.Services).Methods(http.MethodGet)
	sub.HandleFunc("/services/featured", h.FeaturedServices).Methods(http.MethodGet)
	sub.HandleFunc("/services/category/{categoryId}", h.ServicesByCategory).Methods(http.MethodGet)
	sub.HandleFunc("/services/{serviceId}", h.ServiceByID).Methods(http.MethodGet)
	sub.HandleFunc("/appointment/{reference}", h.AppointmentByReference).Methods(http.MethodGet)
	sub.HandleFunc("/appointments", h.Book).Methods(http.MethodPost)
	sub.HandleFunc("/appointments/available", h.AvailableSlots).Methods(http.MethodGet)
	sub.HandleFunc("/appointments/my-appointments", h.MyAppointments).Methods(http.MethodGet)
	sub.HandleFunc("/appointments/user/{email}", h.UserAppointments).Methods(http.MethodGet)
	sub.HandleFunc("/appointments/{reference}/cancel", h.Cancel).Methods(http.MethodPut)
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"shangrila/internal/models"
)

// Списки для профиля пользователя (/api/auth/user) отдают
// booking- и spa-сервисы; сюда они приходят узкими интерфейсами.
type BookingLister interface {
	ListByUser(ctx context.Context, userID uint) ([]models.BookingView, error)
}

type AppointmentLister interface {
	ListByUser(ctx context.Context, userID uint) ([]models.AppointmentView, error)
}

type Handler struct {
	svc      *Service
	bookings BookingLister
	spa      AppointmentLister
}

func NewHandler(svc *Service, bookings BookingLister, spa AppointmentLister) *Handler {
	return &Handler{svc: svc, bookings: bookings, spa: spa}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	Message   string       `json:"message"`
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
}

// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var missing []string
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Username == "" {
		missing = append(missing, "username")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		models.WriteFromError(w, models.MissingFieldsError(missing))
		return
	}

	user, token, err := h.svc.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusCreated, sessionResponse{
		Message:   "User registered successfully",
		User:      user,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.Format(time.RFC3339),
	})
}

// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		models.WriteError(w, http.StatusBadRequest, "username/email and password are required")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusOK, sessionResponse{
		Message:   "Login successful",
		User:      user,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.Format(time.RFC3339),
	})
}

// GET /api/auth/user (bearer)
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		models.WriteFromError(w, models.ErrAuthRequired)
		return
	}
	user, err := h.svc.ResolveToken(r.Context(), token)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	if user == nil {
		models.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	bookings, err := h.bookings.ListByUser(r.Context(), user.ID)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	appointments, err := h.spa.ListByUser(r.Context(), user.ID)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusOK, map[string]any{
		"user":            user,
		"bookings":        bookings,
		"spaAppointments": appointments,
	})
}

// POST /api/auth/logout (bearer)
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		models.WriteFromError(w, models.ErrAuthRequired)
		return
	}
	if err := h.svc.Logout(r.Context(), token); err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusOK, map[string]any{"message": "Logout successful"})
}

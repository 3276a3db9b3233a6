package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shangrila/internal/models"
	"shangrila/internal/repo"
)

// Handler отдаёт каталог (комнаты) и отзывы. Записи только у отзывов;
// в fallback-режиме запись отклоняется, чтобы отзыв не пропал молча.
type Handler struct {
	catalog      repo.CatalogStore
	testimonials repo.TestimonialStore
	degraded     bool
}

func NewHandler(catalog repo.CatalogStore, testimonials repo.TestimonialStore, degraded bool) *Handler {
	return &Handler{catalog: catalog, testimonials: testimonials, degraded: degraded}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data any) {
	if h.degraded {
		models.WriteFallback(w, status, data)
		return
	}
	models.WriteSuccess(w, status, data)
}

// GET /api/rooms
func (h *Handler) Rooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.catalog.ListRooms(r.Context())
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, rooms)
}

// GET /api/room?slug=
func (h *Handler) Room(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		models.WriteError(w, http.StatusBadRequest, "slug parameter is required")
		return
	}
	room, err := h.catalog.GetRoomBySlug(r.Context(), slug)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, room)
}

// GET /api/testimonials?limit=&featured=&category=
func (h *Handler) Testimonials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			models.WriteError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}
	featured := q.Get("featured") == "true"
	category := q.Get("category")

	list, err := h.testimonials.ListApproved(r.Context(), limit, featured, category)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, list)
}

// GET /api/testimonials/categories
func (h *Handler) TestimonialCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.testimonials.ListCategories(r.Context())
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, cats)
}

type testimonialInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Rating   int    `json:"rating"`
	Category string `json:"category"`
	Text     string `json:"text"`
}

// POST /api/testimonials
func (h *Handler) SubmitTestimonial(w http.ResponseWriter, r *http.Request) {
	var in testimonialInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"location", in.Location},
		{"category", in.Category},
		{"text", in.Text},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		models.WriteFromError(w, models.MissingFieldsError(missing))
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		models.WriteFromError(w, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation))
		return
	}

	if h.degraded {
		models.WriteFromError(w, models.ErrStoreUnavailable)
		return
	}

	// Новые отзывы попадают на модерацию и в выдачу не входят.
	t := models.Testimonial{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Location: strings.TrimSpace(in.Location),
		Rating:   in.Rating,
		Category: strings.TrimSpace(in.Category),
		Text:     strings.TrimSpace(in.Text),
	}
	if err := h.testimonials.Create(r.Context(), &t); err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusCreated, map[string]any{
		"message": "Thank you for your feedback! Your testimonial will appear after review.",
	})
}

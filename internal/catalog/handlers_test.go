package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shangrila/internal/models"
	"shangrila/internal/repo"
)

func newTestRouter(t *testing.T, degraded bool) *mux.Router {
	t.Helper()
	r := mux.NewRouter().StrictSlash(true)
	h := NewHandler(repo.NewMemoryCatalogStore(), repo.NewMemoryTestimonialStore(), degraded)
	RegisterRoutes(r, h)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, target string, body any) (*httptest.ResponseRecorder, models.Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env models.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func TestRooms(t *testing.T) {
	r := newTestRouter(t, false)

	w, env := doJSON(t, r, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.False(t, env.Fallback)

	rooms, ok := env.Data.([]any)
	require.True(t, ok)
	assert.NotEmpty(t, rooms)
}

func TestRoomBySlug(t *testing.T) {
	r := newTestRouter(t, false)

	w, env := doJSON(t, r, http.MethodGet, "/api/room?slug=ocean-view-deluxe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, "ocean-view-deluxe", data["slug"])

	w, env = doJSON(t, r, http.MethodGet, "/api/room?slug=no-such-room", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	w, _ = doJSON(t, r, http.MethodGet, "/api/room", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFallbackFlagOnReads(t *testing.T) {
	r := newTestRouter(t, true)

	w, env := doJSON(t, r, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.True(t, env.Fallback)
}

func validTestimonial() map[string]any {
	return map[string]any{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"location": "Singapore",
		"rating":   5,
		"category": "spa",
		"text":     "Wonderful stay, the spa was excellent.",
	}
}

func TestSubmitTestimonial(t *testing.T) {
	r := newTestRouter(t, false)

	w, env := doJSON(t, r, http.MethodPost, "/api/testimonials", validTestimonial())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	// новый отзыв не одобрен и в выдачу не попадает
	w, env = doJSON(t, r, http.MethodGet, "/api/testimonials", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.Data)
}

func TestSubmitTestimonial_Validation(t *testing.T) {
	r := newTestRouter(t, false)

	in := validTestimonial()
	in["rating"] = 6
	w, env := doJSON(t, r, http.MethodPost, "/api/testimonials", in)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "rating")

	in = validTestimonial()
	delete(in, "name")
	in["text"] = "  "
	w, env = doJSON(t, r, http.MethodPost, "/api/testimonials", in)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "name")
	assert.Contains(t, env.Error, "text")
}

func TestSubmitTestimonial_DegradedFailsHard(t *testing.T) {
	r := newTestRouter(t, true)

	w, env := doJSON(t, r, http.MethodPost, "/api/testimonials", validTestimonial())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
}

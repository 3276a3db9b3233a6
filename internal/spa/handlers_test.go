package spa

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shangrila/internal/auth"
	"shangrila/internal/models"
	"shangrila/internal/repo"
)

type anonAuth struct{}

func (anonAuth) UserFromRequest(_ *http.Request) (*models.User, error) { return nil, nil }
func (anonAuth) RegisterInline(_ context.Context, _, _, _ string) (uint, error) {
	return 0, models.ErrStoreUnavailable
}

func newHandlerRouter(t *testing.T) *mux.Router {
	t.Helper()
	catalog := repo.NewMemoryCatalogStore()
	svc := New(catalog, repo.NewMemorySpaStore(catalog), "SPA", false)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	r := mux.NewRouter().StrictSlash(true)
	RegisterRoutes(r, NewHandler(svc, catalog, anonAuth{}))
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

func TestCatalogEndpoints(t *testing.T) {
	r := newHandlerRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/api/spa/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data)

	w, env = doJSON(t, r, http.MethodGet, "/api/spa/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, env.Data)

	w, env = doJSON(t, r, http.MethodGet, "/api/spa/services/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := env.Data.(map[string]any)
	assert.NotEmpty(t, data["category_name"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/spa/services/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/spa/services/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentFlowOverHTTP(t *testing.T) {
	r := newHandlerRouter(t)

	payload := map[string]any{
		"serviceId":       1,
		"appointmentDate": "2026-03-15",
		"appointmentTime": "2:00 PM",
		"guestName":       "Jane Doe",
		"guestEmail":      "jane@example.com",
	}
	w, env := doJSON(t, r, http.MethodPost, "/api/spa/appointments", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	appt := data["appointment"].(map[string]any)
	ref, _ := appt["booking_reference"].(string)
	require.NotEmpty(t, ref)

	// слот пропал из выдачи
	w, env = doJSON(t, r, http.MethodGet,
		"/api/spa/appointments/available?date=2026-03-15&serviceId=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	slots := env.Data.(map[string]any)["availableSlots"].([]any)
	assert.NotContains(t, slots, "2:00 PM")

	// повтор того же слота — 409
	w, env = doJSON(t, r, http.MethodPost, "/api/spa/appointments", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)

	// отмена
	w, env = doJSON(t, r, http.MethodPut, "/api/spa/appointments/"+ref+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", env.Data.(map[string]any)["status"])

	w, _ = doJSON(t, r, http.MethodPut, "/api/spa/appointments/"+ref+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// Невалидная запись с username/password в теле не должна оставлять
// после себя созданный inline-аккаунт.
func TestBook_NoAccountOnRejectedRequest(t *testing.T) {
	catalog := repo.NewMemoryCatalogStore()
	svc := New(catalog, repo.NewMemorySpaStore(catalog), "SPA", false)

	users := repo.NewMemoryUserStore()
	authSvc := auth.New(users, repo.NewMemoryTokenStore(), 30*24*time.Hour, false)

	r := mux.NewRouter().StrictSlash(true)
	RegisterRoutes(r, NewHandler(svc, catalog, authSvc))

	payload := map[string]any{
		"serviceId":       1,
		"appointmentDate": "2026-03-15",
		"appointmentTime": "2:30 PM", // мимо сетки
		"guestName":       "Jane Doe",
		"guestEmail":      "ghost@example.com",
		"username":        "ghost",
		"password":        "s3cret",
	}
	w, env := doJSON(t, r, http.MethodPost, "/api/spa/appointments", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	_, err := users.GetByIdentifier(context.Background(), "ghost")
	require.ErrorIs(t, err, models.ErrNotFound)

	// неизвестная услуга — тот же принцип
	payload["appointmentTime"] = "2:00 PM"
	payload["serviceId"] = 999
	w, _ = doJSON(t, r, http.MethodPost, "/api/spa/appointments", payload)
	require.Equal(t, http.StatusNotFound, w.Code)

	_, err = users.GetByIdentifier(context.Background(), "ghost")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestAvailableSlotsValidation(t *testing.T) {
	r := newHandlerRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/spa/appointments/available?date=2026-03-15", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet,
		"/api/spa/appointments/available?date=15-03-2026&serviceId=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
